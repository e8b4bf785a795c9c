package config

import (
	"github.com/forPelevin/lyricvid/internal/domain/lyrics"
	"github.com/forPelevin/lyricvid/internal/domain/subtitles"
	"github.com/forPelevin/lyricvid/internal/domain/timeline"
)

// Default returns the built-in configuration.
func Default() Config {
	lo := lyrics.DefaultOptions()
	to := timeline.DefaultOptions()
	st := subtitles.DefaultStyle()
	return Config{
		Layout: Layout{
			MaxLineLength:    lo.MaxLineLength,
			BalanceThreshold: lo.BalanceThreshold,
			SegmentGap:       lo.SegmentGap,
			OffsetStart:      to.OffsetStart,
			OffsetEnd:        to.OffsetEnd,
			TrimEnd:          to.TrimEnd,
			FadeIn:           to.FadeIn,
			FadeOut:          to.FadeOut,
			Workers:          4,
		},
		Text: Text{
			FontName:    st.Font,
			FontSize:    st.FontSize,
			Color:       st.Color,
			ActiveColor: st.Active,
			BorderColor: st.Border,
			BorderSize:  st.BorderSize,
			LineGap:     st.LineGap,
			Uppercase:   st.Uppercase,
		},
		Video: Video{
			Width:       st.Width,
			Height:      st.Height,
			LyricArea:   st.AreaHeight,
			FPS:         30,
			MaxDuration: 90,
			AudioVolume: 0.3,
			BgColor:     "#000000",
		},
		Tools: Tools{
			FFmpeg:          "ffmpeg",
			FFprobe:         "ffprobe",
			FFplay:          "ffplay",
			WhisperBin:      "whisper-cli",
			WhisperLanguage: "auto",
			DemucsBin:       "demucs",
			DemucsModel:     "htdemucs",
		},
		Paths: Paths{
			CacheDir: ".cache",
			OutDir:   "out",
		},
	}
}
