package launch

import "launchintel/internal/filter"

// Launch Library 2 wire types, limited to the fields in use.
// See https://ll.thespacedevs.com/2.2.0/swagger.

type ll2Response struct {
	Count   int         `json:"count"`
	Results []ll2Launch `json:"results"`
}

type ll2Launch struct {
	Name    string     `json:"name"`
	NET     *string    `json:"net"`
	Status  *ll2Status `json:"status"`
	Pad     *ll2Pad    `json:"pad"`
	Image   *string    `json:"image"`
	Mission *struct {
		Description string `json:"description"`
	} `json:"mission"`
}

type ll2Status struct {
	Name string `json:"name"`
}

type ll2Pad struct {
	Name     string       `json:"name"`
	Location *ll2Location `json:"location"`
}

type ll2Location struct {
	ID   *int   `json:"id"`
	Name string `json:"name"`
}

// SpaceX API v5 wire types.

type spacexLaunch struct {
	Name    string `json:"name"`
	DateUTC string `json:"date_utc"`
	Links   struct {
		Patch struct {
			Small *string `json:"small"`
		} `json:"patch"`
	} `json:"links"`
}

// Placeholder site for SpaceX records. The API does not report a pad that can
// be matched by ID, so these records only pass the spaceport filter by keyword.
const (
	spacexStatus       = "Confirmed"
	spacexPadName      = "SpaceX Pad"
	spacexLocationName = "SpaceX Facility"
	spacexLocationID   = 0
)

// record is a launch from either provider before output normalization.
type record struct {
	Name   string
	NET    *string
	Status string
	Pad    *pad
	Image  *string
}

type pad struct {
	Name     string
	Location *filter.Location
}

func fromLL2(l ll2Launch) record {
	r := record{Name: l.Name, NET: l.NET, Image: l.Image}
	if l.Status != nil {
		r.Status = l.Status.Name
	}
	if l.Pad != nil {
		r.Pad = &pad{Name: l.Pad.Name}
		if l.Pad.Location != nil {
			r.Pad.Location = &filter.Location{ID: l.Pad.Location.ID, Name: l.Pad.Location.Name}
		}
	}
	return r
}

func fromSpaceX(l spacexLaunch) record {
	r := record{
		Name:   l.Name,
		Status: spacexStatus,
		Image:  l.Links.Patch.Small,
		Pad: &pad{
			Name:     spacexPadName,
			Location: &filter.Location{ID: intPtr(spacexLocationID), Name: spacexLocationName},
		},
	}
	if l.DateUTC != "" {
		net := l.DateUTC
		r.NET = &net
	}
	return r
}

func intPtr(v int) *int { return &v }
