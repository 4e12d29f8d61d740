package timetable

import "time"

// referenceDate anchors the active-hour bucket arithmetic. 1990-01-01 is a
// Monday, so weekday 0 (Monday) aligns with referenceDate's weekday with no
// additional offset, matching stop_times' "day 1" convention from the
// original GTFS loader.
var referenceDate = time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)

func floorHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// weekdayMondayZero converts Go's Sunday=0 weekday numbering to GTFS's
// Monday=0 numbering used throughout active-hour buckets.
func weekdayMondayZero(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// weekdayHourAt returns the (weekday, hour) bucket for at, optionally
// shifted back by delay — used both for plain activity checks and for
// probing a trip's activity under a realtime offset.
func weekdayHourAt(at time.Time, delay time.Duration) (weekday, hour int) {
	shifted := at.Add(-delay)
	return weekdayMondayZero(shifted), shifted.Hour()
}

// generateActiveHours builds the set of (weekday, hour, overtime) buckets
// during which a trip segment spanning [start, end) is active. Ported from
// TripWithStopsAndTimes._generate_active_hours: iterates hour-by-hour over
// the segment's absolute span (anchored at referenceDate), folding the
// active weekday set forward a day when the segment itself starts in
// overtime, and flipping the overtime bit once the walk crosses into the
// reference date's second day when only the end is in overtime.
func generateActiveHours(weekdays [7]bool, start, end HMS) map[activeHourKey]bool {
	deltaStart := time.Duration(0)
	if start.Overtime {
		deltaStart = 24 * time.Hour
	}
	deltaEnd := time.Duration(0)
	if end.Overtime {
		deltaEnd = 24 * time.Hour
	}

	startAbs := referenceDate.Add(time.Duration(start.Seconds)*time.Second + deltaStart)
	endAbs := referenceDate.Add(time.Duration(end.Seconds)*time.Second + deltaEnd)

	activeWeekdays := weekdays
	overtimeTime := false
	shiftWeekday := false
	switch {
	case start.Overtime:
		var shifted [7]bool
		for wd := 0; wd < 7; wd++ {
			if weekdays[wd] {
				shifted[(wd+1)%7] = true
			}
		}
		activeWeekdays = shifted
		overtimeTime = true
	case end.Overtime:
		shiftWeekday = true
	}

	result := make(map[activeHourKey]bool)
	for cur := floorHour(startAbs); cur.Before(endAbs); cur = cur.Add(time.Hour) {
		onSecondDay := cur.Year() == referenceDate.Year() && cur.Month() == referenceDate.Month() && cur.Day() == referenceDate.Day()+1
		for wd := 0; wd < 7; wd++ {
			if !activeWeekdays[wd] {
				continue
			}
			activeDay := wd
			ot := overtimeTime
			if shiftWeekday && onSecondDay {
				activeDay = (activeDay + 1) % 7
				ot = true
			}
			result[activeHourKey{Weekday: activeDay, Hour: cur.Hour(), Overtime: ot}] = true
		}
	}
	return result
}

// dateKey formats a time as the calendar_dates.txt exception-date key.
func dateKey(t time.Time) string {
	return t.Format("20060102")
}

// isTripActive reports whether the trip is running at `at`, and whether
// that activity was matched against the overtime-shifted bucket (meaning
// the trip's service date is the day before `at`). Ported from
// TripWithStopsAndTimes.is_trip_active's plain (non-realtime) path.
func isTripActive(trip *Trip, svc *Service, at time.Time) (active, overtime bool) {
	weekday, hour := weekdayHourAt(at, 0)

	switch {
	case trip.activeHours[activeHourKey{weekday, hour, false}]:
		active = true
	case trip.activeHours[activeHourKey{weekday, hour, true}]:
		active = true
		overtime = true
	}

	if !active {
		if svc.ExtraDates[dateKey(at)] {
			return true, overtime
		}
		return false, overtime
	}

	serviceDate := at
	if overtime {
		serviceDate = at.AddDate(0, 0, -1)
	}
	if svc.RemovedDates[dateKey(serviceDate)] {
		return false, overtime
	}
	return true, overtime
}

// isTripActiveRealtime probes trip activity under every delay a realtime
// update could plausibly introduce, returning true as soon as one delay
// hypothesis makes the trip active. Ported from is_trip_active's realtime
// branch: each candidate delay shifts the probe time before the bucket
// lookup, since a vehicle running late or early changes which hour bucket
// `at` falls into.
func isTripActiveRealtime(trip *Trip, svc *Service, at time.Time, delaysToCheck []time.Duration) (active, overtime bool) {
	checked := make(map[[2]int]bool)
	for _, delay := range delaysToCheck {
		weekday, hour := weekdayHourAt(at, delay)
		key := [2]int{weekday, hour}
		if checked[key] {
			continue
		}
		checked[key] = true

		a, ot := false, false
		switch {
		case trip.activeHours[activeHourKey{weekday, hour, false}]:
			a = true
		case trip.activeHours[activeHourKey{weekday, hour, true}]:
			a = true
			ot = true
		}

		if !a {
			probeDate := at.Add(-delay)
			if svc.ExtraDates[dateKey(probeDate)] {
				return true, ot
			}
			continue
		}

		serviceDate := at.Add(-delay)
		if ot {
			serviceDate = serviceDate.AddDate(0, 0, -1)
		}
		if svc.RemovedDates[dateKey(serviceDate)] {
			continue
		}
		return true, ot
	}
	return false, false
}

// segmentActivity reports whether the trip segment ending at stop-times
// index segIdx+1 (i.e. the leg from StopTimes[segIdx] to StopTimes[segIdx+1])
// is active at `at`, given the overtime bit from isTripActive, a uniform
// delay/earliness widening window, and the segment's realtime (start, end)
// offset from RTOffset (zero when the trip has no realtime corrections).
// Ported from get_active_trip_segment_ids' per-segment day-shift table
// (spec.md §4.3's 4-row table).
func segmentActivity(trip *Trip, segIdx int, at time.Time, overtime bool, delay, earliness time.Duration, rtStart, rtEnd time.Duration) bool {
	start := trip.StopTimes[segIdx]
	end := trip.StopTimes[segIdx+1]

	var dayStart, dayEnd int
	switch {
	case overtime && !start.Departure.Overtime && !end.Arrival.Overtime:
		dayStart, dayEnd = -1, -1
	case overtime && !start.Departure.Overtime:
		dayStart = -1
	case !overtime && !start.Departure.Overtime && end.Arrival.Overtime:
		dayEnd = 1
	case !overtime && start.Departure.Overtime && end.Arrival.Overtime:
		dayStart, dayEnd = 1, 1
	}

	serviceDay := floorDay(at)
	startAbs := serviceDay.Add(time.Duration(start.Departure.Seconds) * time.Second).AddDate(0, 0, dayStart)
	endAbs := serviceDay.Add(time.Duration(end.Arrival.Seconds) * time.Second).AddDate(0, 0, dayEnd)

	startWithOffset := startAbs.Add(-earliness).Add(rtStart)
	endWithOffset := endAbs.Add(delay).Add(rtEnd)

	return !at.Before(startWithOffset) && !at.After(endWithOffset)
}

func floorDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ActiveSegments returns the trip-segment indices (0-based positions into
// Trip.StopTimes, where index i spans StopTimes[i]->StopTimes[i+1]) that
// are active at `at` for this trip, applying the delay/earliness widening
// window and, when updates is non-empty, the trip's realtime corrections:
// isTripActiveRealtime probes every delay hypothesis DelaysToCheck derives
// from updates, and each segment's window is additionally shifted by
// RTOffset's held-forward correction. Returns nil if the trip's service is
// out of date-window, not active this hour, or removed for this date.
func ActiveSegments(trip *Trip, svc *Service, at time.Time, delay, earliness time.Duration, updates []RealtimeStopUpdate) []int {
	if !svc.StartDate.IsZero() && !svc.EndDate.IsZero() {
		day := floorDay(at)
		if day.Before(svc.StartDate) || day.After(svc.EndDate) {
			return nil
		}
	}

	var active, overtime bool
	if len(updates) > 0 {
		active, overtime = isTripActiveRealtime(trip, svc, at, DelaysToCheck(at, updates, trip))
	} else {
		active, overtime = isTripActive(trip, svc, at)
	}
	if !active {
		return nil
	}

	var segments []int
	for i := 0; i < len(trip.StopTimes)-1; i++ {
		rtStart, rtEnd := RTOffset(updates, i, trip, at)
		if segmentActivity(trip, i, at, overtime, delay, earliness, rtStart, rtEnd) {
			segments = append(segments, i)
		}
	}
	return segments
}

// PrecomputeActiveHours must be called once per trip after its StopTimes
// are populated (and before concurrent read access begins), building the
// active-hour bucket set used by isTripActive. Exposed so the Timetable
// Loader can build it during Snapshot construction.
func PrecomputeActiveHours(trip *Trip, weekdays [7]bool) {
	if len(trip.StopTimes) == 0 {
		return
	}
	start := trip.StopTimes[0].Departure
	end := trip.StopTimes[len(trip.StopTimes)-1].Arrival
	trip.activeHours = generateActiveHours(weekdays, start, end)
}
