// Package realtimefeed decodes a GTFS-Realtime TripUpdates feed into a
// timetable.RealtimeTable. Grounded on the pack's tidbyt-gtfs
// (parse/realtime.go) and joeshaw-cota-bus (internal/updater/trip_updater.go)
// repos, both of which unmarshal the raw MobilityData protobuf rather than
// going through a higher-level parser; spec.md §7 calls for the same.
package realtimefeed

import (
	"fmt"

	gtfsrt "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"transitsnap.dev/internal/timetable"
)

// Decode unmarshals a single GTFS-Realtime FeedMessage payload (TripUpdates
// feed) into a RealtimeTable. A trip whose TripUpdate is malformed (missing
// trip_id) is skipped rather than failing the whole feed, per spec.md §7;
// a stop_time_update with neither arrival nor departure set is also
// skipped since it carries no correction.
func Decode(raw []byte) (*timetable.RealtimeTable, error) {
	feed := &gtfsrt.FeedMessage{}
	if err := proto.Unmarshal(raw, feed); err != nil {
		return nil, fmt.Errorf("error parsing GTFS-RT feed: %w", err)
	}

	table := &timetable.RealtimeTable{ByTrip: map[string][]timetable.RealtimeStopUpdate{}}

	for _, entity := range feed.GetEntity() {
		tripUpdate := entity.GetTripUpdate()
		if tripUpdate == nil {
			continue
		}
		trip := tripUpdate.GetTrip()
		tripID := trip.GetTripId()
		if tripID == "" {
			continue
		}
		if trip.GetScheduleRelationship() == gtfsrt.TripDescriptor_CANCELED {
			continue
		}

		for _, stu := range tripUpdate.GetStopTimeUpdate() {
			update, ok := decodeStopTimeUpdate(stu)
			if !ok {
				continue
			}
			table.ByTrip[tripID] = append(table.ByTrip[tripID], update)
		}
	}

	return table, nil
}

func decodeStopTimeUpdate(stu *gtfsrt.TripUpdate_StopTimeUpdate) (timetable.RealtimeStopUpdate, bool) {
	if stu.GetScheduleRelationship() == gtfsrt.TripUpdate_StopTimeUpdate_SKIPPED {
		return timetable.RealtimeStopUpdate{}, false
	}

	update := timetable.RealtimeStopUpdate{StopSequence: int(stu.GetStopSequence())}

	if arr := stu.GetArrival(); arr != nil {
		update.Arrival = decodeEvent(arr)
	}
	if dep := stu.GetDeparture(); dep != nil {
		update.Departure = decodeEvent(dep)
	}
	if update.Arrival == nil && update.Departure == nil {
		return timetable.RealtimeStopUpdate{}, false
	}
	return update, true
}

// decodeEvent prefers an absolute time over a relative delay when a feed
// (against spec) sets both, since an absolute time is the stronger signal.
func decodeEvent(ev *gtfsrt.TripUpdate_StopTimeEvent) *timetable.RealtimeDelta {
	if ev.Time != nil {
		return &timetable.RealtimeDelta{Seconds: int(ev.GetTime()), Absolute: true}
	}
	if ev.Delay != nil {
		return &timetable.RealtimeDelta{Seconds: int(ev.GetDelay()), Absolute: false}
	}
	return nil
}
