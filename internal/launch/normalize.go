package launch

import (
	"launchintel/internal/filter"
	"launchintel/internal/model"
)

// MaxLaunches caps the number of launches returned by an aggregation.
const MaxLaunches = 5

// Output defaults for fields a provider left empty.
const (
	unknownStatus   = "Unknown"
	unknownPad      = "Unknown Pad"
	unknownLocation = "Unknown Location"
)

// merge picks one provider's records. Secondary records are used only when
// the primary provider returned nothing; the two are never interleaved.
func merge(primary, secondary []record) []record {
	if len(primary) > 0 {
		return primary
	}
	return secondary
}

// relevant keeps records at allow-listed spaceports, in order, up to limit.
// Records without a pad or location cannot be placed and are dropped.
func relevant(records []record, sp filter.Spaceports, limit int) []record {
	out := make([]record, 0, min(limit, len(records)))
	for _, r := range records {
		if len(out) == limit {
			break
		}
		if r.Pad == nil || !sp.Match(r.Pad.Location) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func normalize(records []record) []model.Launch {
	out := make([]model.Launch, 0, len(records))
	for _, r := range records {
		l := model.Launch{
			Name:     r.Name,
			Status:   orDefault(r.Status, unknownStatus),
			NET:      r.NET,
			Pad:      unknownPad,
			Location: unknownLocation,
		}
		if r.Pad != nil {
			l.Pad = orDefault(r.Pad.Name, unknownPad)
			if r.Pad.Location != nil {
				l.Location = orDefault(r.Pad.Location.Name, unknownLocation)
			}
		}
		if r.Image != nil && *r.Image != "" {
			img := *r.Image
			l.Image = &img
		}
		out = append(out, l)
	}
	return out
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
