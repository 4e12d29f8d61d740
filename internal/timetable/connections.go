package timetable

import (
	"sort"
	"strconv"
	"time"
)

// connectionWindow is how far ahead /connections scans for departures,
// per spec.md §6.
const connectionWindow = 5 * time.Hour

// maxConnections caps the number of entries /connections returns, per
// spec.md §6's "up-to-20".
const maxConnections = 20

// ConnectionEntry is one scheduled departure from a stop, matching
// spec.md §6's six-field connections tuple.
type ConnectionEntry struct {
	RouteShortName   string
	Destination      string
	RouteType        string
	DepartureEpochMS int64
	RouteColor       string
	RouteTextColor   string
}

// serviceRunsOn reports whether svc's calendar is in effect on the
// calendar date day (a midnight-floored time in the timetable's zone),
// applying the weekday bitmask, the start/end date window and the
// calendar_dates.txt exceptions.
func serviceRunsOn(svc *Service, day time.Time) bool {
	inWindow := true
	if !svc.StartDate.IsZero() && !svc.EndDate.IsZero() {
		inWindow = !day.Before(svc.StartDate) && !day.After(svc.EndDate)
	}

	scheduled := inWindow && svc.Weekdays[weekdayMondayZero(day)]
	key := dateKey(day)
	if svc.RemovedDates[key] {
		return false
	}
	if scheduled {
		return true
	}
	return svc.ExtraDates[key]
}

// Connections returns the next up-to-20 scheduled departures from the
// stop(s) named stopName, in [at, at+5h), excluding excludeTripID and any
// departure whose trip destination equals stopName — spec.md §6's
// /connections. Entries are deduplicated and sorted by departure time.
func Connections(snap *Snapshot, stopName string, at time.Time, excludeTripID string) []ConnectionEntry {
	matchStops := make(map[string]bool)
	for _, s := range snap.Stops {
		if s.Name == stopName {
			matchStops[s.ID] = true
		}
	}
	if len(matchStops) == 0 {
		return nil
	}

	windowEnd := at.Add(connectionWindow)
	type key struct {
		route, dest, routeType string
		epoch                  int64
		color, textColor       string
	}
	seen := make(map[key]bool)
	var entries []ConnectionEntry

	for _, trip := range snap.Trips {
		if trip.ID == excludeTripID || len(trip.StopTimes) == 0 {
			continue
		}
		svc := snap.Services[trip.ServiceID]
		if svc == nil {
			continue
		}
		destStop := snap.Stops[trip.StopTimes[len(trip.StopTimes)-1].StopID]
		if destStop == nil || destStop.Name == stopName {
			continue
		}
		// Connections reports the feed's own route colors verbatim, unlike
		// the Response Assembler's ResolveColors: /connections is a plain
		// schedule lookup, not a map-match result, and the original
		// find_transfer_possibilities never applies the category override.
		route := snap.Routes[trip.RouteID]
		var routeShortName, color, textColor, routeType string
		if route != nil {
			routeShortName = route.ShortName
			routeType = formatRouteType(route.Type)
			color, textColor = route.FillColor, route.TextColor
		}
		if color == "" {
			color = blankFallbackColor
		}
		if textColor == "" {
			textColor = blankFallbackTextColor
		}

		for _, st := range trip.StopTimes {
			if !matchStops[st.StopID] {
				continue
			}
			for _, dayOffset := range [2]int{0, -1} {
				day := floorDay(at).AddDate(0, 0, dayOffset)
				if !serviceRunsOn(svc, day) {
					continue
				}
				depSeconds := st.Departure.Seconds
				if st.Departure.Overtime {
					depSeconds += 24 * 3600
				}
				depAbs := day.Add(time.Duration(depSeconds) * time.Second)
				if depAbs.Before(at) || !depAbs.Before(windowEnd) {
					continue
				}

				epoch := depAbs.UnixMilli()
				k := key{routeShortName, destStop.Name, routeType, epoch, color, textColor}
				if seen[k] {
					continue
				}
				seen[k] = true
				entries = append(entries, ConnectionEntry{
					RouteShortName:   routeShortName,
					Destination:      destStop.Name,
					RouteType:        routeType,
					DepartureEpochMS: epoch,
					RouteColor:       color,
					RouteTextColor:   textColor,
				})
			}
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].DepartureEpochMS < entries[j].DepartureEpochMS })
	if len(entries) > maxConnections {
		entries = entries[:maxConnections]
	}
	return entries
}

func formatRouteType(t int) string {
	return strconv.Itoa(t)
}
