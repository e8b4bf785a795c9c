package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLayout(); err != nil {
		return err
	}
	if err := c.validateText(); err != nil {
		return err
	}
	if err := c.validateVideo(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLayout() error {
	l := c.Layout
	if l.MaxLineLength <= 0 {
		return errors.New("layout.max_line_length must be positive")
	}
	if l.BalanceThreshold < l.MaxLineLength {
		return fmt.Errorf("layout.balance_threshold (%d) must be >= layout.max_line_length (%d)", l.BalanceThreshold, l.MaxLineLength)
	}
	if l.SegmentGap <= 0 {
		return errors.New("layout.segment_gap must be positive")
	}
	for name, v := range map[string]float64{
		"offset_start": l.OffsetStart,
		"offset_end":   l.OffsetEnd,
		"trim_end":     l.TrimEnd,
		"fade_in":      l.FadeIn,
		"fade_out":     l.FadeOut,
	} {
		if v < 0 {
			return fmt.Errorf("layout.%s must be >= 0", name)
		}
	}
	if l.TrimEnd > l.OffsetEnd {
		return errors.New("layout.trim_end must not exceed layout.offset_end")
	}
	if l.Workers < 0 {
		return errors.New("layout.workers must be >= 0")
	}
	return nil
}

func (c *Config) validateText() error {
	if c.Text.FontSize <= 0 {
		return errors.New("text.font_size must be positive")
	}
	if strings.TrimSpace(c.Text.FontName) == "" {
		return errors.New("text.font_name is required")
	}
	for name, v := range map[string]string{
		"color":        c.Text.Color,
		"active_color": c.Text.ActiveColor,
		"border_color": c.Text.BorderColor,
	} {
		if !isHexColor(v) {
			return fmt.Errorf("text.%s must be #RRGGBB, got %q", name, v)
		}
	}
	if c.Text.BorderSize < 0 || c.Text.LineGap < 0 {
		return errors.New("text.border_size and text.line_gap must be >= 0")
	}
	return nil
}

func (c *Config) validateVideo() error {
	v := c.Video
	if v.Width <= 0 || v.Height <= 0 {
		return fmt.Errorf("video size must be positive, got %dx%d", v.Width, v.Height)
	}
	if v.LyricArea <= 0 || v.LyricArea > v.Height {
		return fmt.Errorf("video.lyric_area_height must be in (0, %d]", v.Height)
	}
	if v.FPS <= 0 {
		return errors.New("video.fps must be positive")
	}
	if v.MaxDuration < 0 {
		return errors.New("video.max_duration must be >= 0")
	}
	if v.AudioVolume < 0 || v.AudioVolume > 1 {
		return errors.New("video.audio_volume must be within [0, 1]")
	}
	if v.Background == "" && !isHexColor(v.BgColor) {
		return fmt.Errorf("video.bg_color must be #RRGGBB, got %q", v.BgColor)
	}
	return nil
}

func isHexColor(s string) bool {
	h, ok := strings.CutPrefix(s, "#")
	if !ok || len(h) != 6 {
		return false
	}
	_, err := strconv.ParseUint(h, 16, 32)
	return err == nil
}
