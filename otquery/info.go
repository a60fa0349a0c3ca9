package otquery

import (
	"github.com/npillmayer/glyphpath/ot"
)

// FontType returns the font type, encoded in the font header, as a string.
func FontType(otf *ot.Font) string {
	if otf.Header == nil {
		return "<empty>"
	}
	typ := otf.Header.FontType
	switch typ {
	case 0x4f54544f: // OTTO
		return "OpenType (outlines)"
	case 0x00010000: // TrueType
		return "TrueType"
	case 0x74727565: // true
		return "TrueType (Mac legacy)"
	}
	return "<unknown>"
}

// NameInfo returns a map with selected fields from OpenType table `name`.
// Will include (if available in the font) "family", "subfamily", "version"
// and "fullname".
func NameInfo(otf *ot.Font) map[string]string {
	names := make(map[string]string)
	if otf.Names == nil {
		tracer().Debugf("no name table found in font")
		return names
	}
	fields := []struct {
		key    string
		nameID uint16
	}{
		{"family", 1},
		{"subfamily", 2},
		{"fullname", 4},
		{"version", 5},
	}
	for _, f := range fields {
		if val := otf.Names.Get(f.nameID); val != "" {
			names[f.key] = val
		}
	}
	return names
}

// IsVariableFont is true if the font carries the tables needed for
// design-space interpolation of glyph outlines.
func IsVariableFont(otf *ot.Font) bool {
	return otf.Var.FVar != nil && len(otf.Var.FVar.Axes) > 0 && otf.Var.GVar != nil
}

// AxisInfo describes one design-space axis of a variable font.
type AxisInfo struct {
	Tag     string
	Name    string // display name from the name table, may be empty
	Minimum float64
	Default float64
	Maximum float64
}

// AxisList returns the design-space axes of a font, in the order the font
// declares them. Non-variable fonts return an empty list.
func AxisList(otf *ot.Font) []AxisInfo {
	fvar := otf.Var.FVar
	if fvar == nil {
		return nil
	}
	axes := make([]AxisInfo, len(fvar.Axes))
	for i, ax := range fvar.Axes {
		axes[i] = AxisInfo{
			Tag:     ax.Tag.String(),
			Minimum: ax.Minimum,
			Default: ax.Default,
			Maximum: ax.Maximum,
		}
		if otf.Names != nil {
			axes[i].Name = otf.Names.Get(ax.NameID)
		}
	}
	return axes
}

// InstanceInfo describes a named instance of a variable font, e.g.
// "Condensed Bold".
type InstanceInfo struct {
	Name        string
	Coordinates map[string]float64 // axis tag to design-space value
}

// NamedInstances returns the named design-space instances of a font.
func NamedInstances(otf *ot.Font) []InstanceInfo {
	fvar := otf.Var.FVar
	if fvar == nil || len(fvar.Instances) == 0 {
		return nil
	}
	instances := make([]InstanceInfo, len(fvar.Instances))
	for i, inst := range fvar.Instances {
		info := InstanceInfo{Coordinates: make(map[string]float64, len(fvar.Axes))}
		if otf.Names != nil {
			info.Name = otf.Names.Get(inst.NameID)
		}
		for a, ax := range fvar.Axes {
			if a < len(inst.Coordinates) {
				info.Coordinates[ax.Tag.String()] = inst.Coordinates[a]
			}
		}
		instances[i] = info
	}
	return instances
}
