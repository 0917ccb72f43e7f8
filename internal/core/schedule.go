package core

import (
	"errors"
	"strconv"
	"strings"
)

// Schedule type tags.
const (
	TypeFlight      ScheduleType = "flight"
	TypeTransport   ScheduleType = "transport"
	TypeFood        ScheduleType = "food"
	TypeHotel       ScheduleType = "hotel"
	TypeSightseeing ScheduleType = "sightseeing"
	TypeShopping    ScheduleType = "shopping"
	TypeEtc         ScheduleType = "etc"
)

type ScheduleType string

// ScheduleTypeLabels maps type tags to their display labels.
var ScheduleTypeLabels = map[ScheduleType]string{
	TypeFlight:      "항공",
	TypeTransport:   "교통",
	TypeFood:        "식사",
	TypeHotel:       "숙소",
	TypeSightseeing: "관광",
	TypeShopping:    "쇼핑",
	TypeEtc:         "기타",
}

// Label returns the display label for a type tag, or the tag itself when the
// tag is unknown.
func (t ScheduleType) Label() string {
	if l, ok := ScheduleTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

func (t ScheduleType) Valid() bool {
	_, ok := ScheduleTypeLabels[t]
	return ok
}

// TripDays is the fixed set of trip days.
var TripDays = []int{1, 2, 3, 4}

var (
	ErrEmptyTitle       = errors.New("empty title")
	ErrMissingStartTime = errors.New("missing start time")
	ErrInvalidTime      = errors.New("invalid time, want HH:MM")
	ErrInvalidDay       = errors.New("invalid day")
	ErrInvalidType      = errors.New("invalid schedule type")
)

// ScheduleItem is the in-memory shape of one schedule entry. ID is the
// server-assigned identifier, empty until the item has been persisted.
// Start and End are 24h "HH:MM" clock strings; End may be empty.
type ScheduleItem struct {
	ID          string
	Day         int
	Start       string
	End         string
	Type        ScheduleType
	Title       string
	Location    string
	LocationURL string
	Note        string
	Costs       Costs
	Completed   bool
}

// TimeLabel builds the display time range: "HH:MM - HH:MM", "HH:MM ~" when
// the end is open, "~ HH:MM" when only the end is known, otherwise empty.
func (it ScheduleItem) TimeLabel() string {
	switch {
	case it.Start != "" && it.End != "":
		return it.Start + " - " + it.End
	case it.Start != "":
		return it.Start + " ~"
	case it.End != "":
		return "~ " + it.End
	}
	return ""
}

// SortKey is the value bucket ordering sorts by: the start time when set,
// otherwise the first token of the time label.
func (it ScheduleItem) SortKey() string {
	if it.Start != "" {
		return it.Start
	}
	label := it.TimeLabel()
	for _, sep := range []string{"-", "~"} {
		if i := strings.Index(label, sep); i >= 0 {
			label = label[:i]
			break
		}
	}
	return strings.TrimSpace(label)
}

// ScheduleRecord is the persisted wire shape of a schedule entry: times as
// "HH:MM:SS" (empty for null) and a single aggregate cost instead of the
// per-category breakdown.
type ScheduleRecord struct {
	ID          string       `json:"id"`
	Day         int          `json:"day"`
	StartTime   string       `json:"start_time"`
	EndTime     string       `json:"end_time"`
	Type        ScheduleType `json:"type"`
	Title       string       `json:"title"`
	Location    string       `json:"location"`
	LocationURL string       `json:"location_url"`
	Note        string       `json:"note"`
	Cost        int          `json:"cost"`
	IsCompleted bool         `json:"is_completed"`
}

// Record converts an item to its persisted shape. The start time is required
// and must be a valid HH:MM; callers reject the save before touching the
// gateway when this fails. The six-category breakdown collapses into one
// aggregate cost because the persisted schema only carries the total.
func (it ScheduleItem) Record() (ScheduleRecord, error) {
	if strings.TrimSpace(it.Title) == "" {
		return ScheduleRecord{}, ErrEmptyTitle
	}
	if it.Start == "" {
		return ScheduleRecord{}, ErrMissingStartTime
	}
	if !ValidClock(it.Start) {
		return ScheduleRecord{}, ErrInvalidTime
	}
	if it.End != "" && !ValidClock(it.End) {
		return ScheduleRecord{}, ErrInvalidTime
	}
	if it.Day < 1 {
		return ScheduleRecord{}, ErrInvalidDay
	}
	if !it.Type.Valid() {
		return ScheduleRecord{}, ErrInvalidType
	}
	return ScheduleRecord{
		ID:          it.ID,
		Day:         it.Day,
		StartTime:   clockToDB(it.Start),
		EndTime:     clockToDB(it.End),
		Type:        it.Type,
		Title:       strings.TrimSpace(it.Title),
		Location:    strings.TrimSpace(it.Location),
		LocationURL: strings.TrimSpace(it.LocationURL),
		Note:        strings.TrimSpace(it.Note),
		Cost:        it.Costs.Total(),
		IsCompleted: it.Completed,
	}, nil
}

// ItemFromRecord converts a persisted record back to the in-memory shape.
// It never fails: absent optional fields become empty strings and the
// aggregate cost lands entirely in the Etc category, leaving the other five
// at zero. The persisted schema has no per-category detail to restore.
func ItemFromRecord(r ScheduleRecord) ScheduleItem {
	return ScheduleItem{
		ID:          r.ID,
		Day:         r.Day,
		Start:       clockFromDB(r.StartTime),
		End:         clockFromDB(r.EndTime),
		Type:        r.Type,
		Title:       r.Title,
		Location:    r.Location,
		LocationURL: r.LocationURL,
		Note:        r.Note,
		Costs:       Costs{Etc: r.Cost},
		Completed:   r.IsCompleted,
	}
}

// ValidClock reports whether s is a 24h "HH:MM" clock string.
func ValidClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil || h < 0 || h > 23 {
		return false
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil || m < 0 || m > 59 {
		return false
	}
	return true
}

// clockToDB widens "HH:MM" to the stored "HH:MM:SS" form; empty stays empty
// (null in the database).
func clockToDB(s string) string {
	if s == "" {
		return ""
	}
	return s + ":00"
}

// clockFromDB narrows a stored "HH:MM:SS" back to "HH:MM".
func clockFromDB(s string) string {
	if len(s) >= 5 {
		return s[:5]
	}
	return s
}
