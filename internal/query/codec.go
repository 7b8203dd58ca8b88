package query

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"blood-orders/internal/orders"
)

// URL parameter names shared with every codec caller
const (
	paramStartDate = "startDate"
	paramEndDate   = "endDate"
	paramBloodType = "bloodTypes"
	paramStatus    = "statuses"
	paramBloodBank = "bloodBank"
	paramSortBy    = "sortBy"
	paramSortOrder = "sortOrder"
	paramPage      = "page"
	paramPageSize  = "pageSize"
)

const dateLayout = "2006-01-02"

// Encode serializes the state into flat URL parameters. Absent date
// bounds and empty sets produce absent keys, not empty values. The
// tenant id travels out of band (auth), never in the URL.
func Encode(state QueryState) url.Values {
	values := url.Values{}

	if state.StartDate != nil {
		values.Set(paramStartDate, state.StartDate.Format(dateLayout))
	}
	if state.EndDate != nil {
		values.Set(paramEndDate, state.EndDate.Format(dateLayout))
	}
	if len(state.BloodTypes) > 0 {
		parts := make([]string, len(state.BloodTypes))
		for i, bt := range state.BloodTypes {
			parts[i] = string(bt)
		}
		values.Set(paramBloodType, strings.Join(parts, ","))
	}
	if len(state.Statuses) > 0 {
		parts := make([]string, len(state.Statuses))
		for i, st := range state.Statuses {
			parts[i] = string(st)
		}
		values.Set(paramStatus, strings.Join(parts, ","))
	}
	if state.BloodBankSearch != "" {
		values.Set(paramBloodBank, state.BloodBankSearch)
	}
	values.Set(paramSortBy, string(state.SortColumn))
	values.Set(paramSortOrder, string(state.SortDirection))
	values.Set(paramPage, strconv.Itoa(state.Page))
	values.Set(paramPageSize, strconv.Itoa(state.PageSize))

	return values
}

// EncodeQuery returns the percent-encoded query string for the state
func EncodeQuery(state QueryState) string {
	return Encode(state).Encode()
}

// Decode is total: every malformed or missing parameter degrades to
// that field's default rather than failing. Unknown set members are
// dropped, unknown sort columns fall back to placedAt/desc, and
// out-of-range page numbers fall back to 1.
func Decode(hospitalID string, values url.Values) QueryState {
	state := DefaultState(hospitalID)

	if t, ok := parseDate(values.Get(paramStartDate)); ok {
		state.StartDate = &t
	}
	if t, ok := parseDate(values.Get(paramEndDate)); ok {
		state.EndDate = &t
	}

	for _, raw := range splitSet(values.Get(paramBloodType)) {
		if bt := orders.BloodType(raw); bt.IsValid() {
			state.BloodTypes = append(state.BloodTypes, bt)
		}
	}
	for _, raw := range splitSet(values.Get(paramStatus)) {
		if st := orders.Status(raw); st.IsValid() {
			state.Statuses = append(state.Statuses, st)
		}
	}

	state.BloodBankSearch = values.Get(paramBloodBank)

	if col := orders.SortColumn(values.Get(paramSortBy)); col.IsValid() {
		state.SortColumn = col
	}
	if dir := orders.SortDirection(values.Get(paramSortOrder)); dir.IsValid() {
		state.SortDirection = dir
	}

	if n, err := strconv.Atoi(values.Get(paramPage)); err == nil && n >= 1 {
		state.Page = n
	}
	if n, err := strconv.Atoi(values.Get(paramPageSize)); err == nil && validPageSizes[n] {
		state.PageSize = n
	}

	return state
}

// DecodeQuery parses a raw query string and decodes it; unparseable
// input degrades to the default state.
func DecodeQuery(hospitalID, rawQuery string) QueryState {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return DefaultState(hospitalID)
	}
	return Decode(hospitalID, values)
}

func parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// splitSet treats an absent key as an empty set, not a set containing
// the empty string.
func splitSet(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
