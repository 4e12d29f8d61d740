package timetable

import "time"

// DelaysToCheck converts a trip's realtime stop updates into the distinct
// delay hypotheses isTripActiveRealtime must probe, ported from
// get_delays_to_check: every arrival/departure correction on the trip is a
// candidate delay, since we don't yet know which trip segment a GPS fix
// belongs to.
func DelaysToCheck(at time.Time, updates []RealtimeStopUpdate, trip *Trip) []time.Duration {
	var delays []time.Duration
	for _, u := range updates {
		if u.Arrival != nil && u.StopSequence-1 >= 0 && u.StopSequence-1 < len(trip.StopTimes) {
			st := trip.StopTimes[u.StopSequence-1]
			delays = append(delays, resolveDelta(*u.Arrival, at, st.Arrival))
		}
		if u.Departure != nil && u.StopSequence-1 >= 0 && u.StopSequence-1 < len(trip.StopTimes) {
			st := trip.StopTimes[u.StopSequence-1]
			delays = append(delays, resolveDelta(*u.Departure, at, st.Departure))
		}
	}
	return delays
}

// resolveDelta turns a single RealtimeDelta into a time.Duration offset
// from the trip's scheduled time, handling both the absolute-new-time form
// and the relative-seconds form. Ported from get_delay_single_tuple.
func resolveDelta(d RealtimeDelta, at time.Time, scheduled HMS) time.Duration {
	if !d.Absolute {
		return time.Duration(d.Seconds) * time.Second
	}
	serviceDay := floorDay(at)
	scheduledAbs := serviceDay.Add(time.Duration(scheduled.Seconds) * time.Second)
	if scheduled.Overtime {
		scheduledAbs = scheduledAbs.AddDate(0, 0, 1)
	}
	actual := time.Unix(int64(d.Seconds), 0).UTC()
	return actual.Sub(scheduledAbs)
}

// RTOffset resolves the (start, end) delay pair applied to a trip segment
// from its trip's realtime updates, implementing get_rt_offset's "hold the
// last known correction forward until a newer one arrives" propagation
// rule (spec.md §4.3.1). segIdx spans StopTimes[segIdx] (1-based GTFS
// stop_sequence segIdx+1) to StopTimes[segIdx+1] (stop_sequence segIdx+2).
func RTOffset(updates []RealtimeStopUpdate, segIdx int, trip *Trip, at time.Time) (start, end time.Duration) {
	startSeq := segIdx + 1
	endSeq := segIdx + 2

	for _, u := range updates {
		if u.StopSequence > endSeq {
			break
		}
		if u.StopSequence == endSeq {
			if u.Arrival != nil {
				st := trip.StopTimes[segIdx+1]
				end = resolveDelta(*u.Arrival, at, st.Arrival)
			} else {
				end = start
			}
			break
		}
		if u.StopSequence <= startSeq && u.Departure != nil {
			st := trip.StopTimes[u.StopSequence-1]
			d := resolveDelta(*u.Departure, at, st.Departure)
			start, end = d, d
		}
	}
	return start, end
}
