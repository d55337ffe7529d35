package viewer

import (
	"github.com/Faultbox/ev-configurator/internal/config"
	"github.com/Faultbox/ev-configurator/internal/viewer/lod"
	"github.com/Faultbox/ev-configurator/internal/viewer/section"
)

// OptionsFromConfig maps the viewer section of the settings file to Options.
// Clock and Logger are left for the caller.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	axis, err := section.ParseAxis(cfg.Viewer.SectionAxis)
	if err != nil {
		return Options{}, err
	}
	l := cfg.Viewer.LOD
	return Options{
		AnimationSpeed:     cfg.Viewer.AnimationSpeed,
		TransitionDuration: cfg.Viewer.TransitionTime,
		SectionAxis:        axis,
		LOD: lod.Config{
			LowFPS:   l.LowFPS,
			HighFPS:  l.HighFPS,
			MaxLevel: l.MaxLevel,
			Window:   l.Window,
		},
	}, nil
}
