package matcher

import (
	"strconv"

	"transitsnap.dev/internal/geo"
	"transitsnap.dev/internal/timetable"
)

// resolveColors delegates to timetable.ResolveColors. The /connections
// handler does not call it: Connections reports the feed's own colours.
func resolveColors(color, textColor string, routeType int) (string, string) {
	return timetable.ResolveColors(color, textColor, routeType)
}

// nextStop implements the Response Assembler's next-stop walk (spec.md
// §4.8): starts at the stop following the first active segment, then
// advances to later stops only while the snapped position on the last
// edge is past that candidate stop's own projection onto the edge.
// Ported from GTFSContainer.py's get_next_stop.
func nextStop(snap *timetable.Snapshot, trip *timetable.Trip, snapped geo.Coordinate, lastEdgeFrom, lastEdgeTo geo.Coordinate, segmentIDs []int) string {
	if len(segmentIDs) == 0 {
		return ""
	}

	stopAt := func(segID int) *timetable.Stop {
		if segID+1 >= len(trip.StopTimes) {
			return nil
		}
		return snap.Stops[trip.StopTimes[segID+1].StopID]
	}

	stop := stopAt(segmentIDs[0])
	if stop == nil {
		return ""
	}
	if len(segmentIDs) == 1 {
		return stop.Name
	}

	currentDistToStart := geo.Distance(snapped, lastEdgeFrom)
	for _, segID := range segmentIDs[1:] {
		stopOnEdge, _ := geo.ProjectOntoSegment(stop.Location, lastEdgeFrom, lastEdgeTo)
		stopDistToStart := geo.Distance(stopOnEdge, lastEdgeFrom)

		if currentDistToStart > stopDistToStart {
			next := stopAt(segID)
			if next == nil {
				break
			}
			stop = next
		} else {
			break
		}
	}
	return stop.Name
}

// AssembleResponse implements the Response Assembler (spec.md §4.8),
// producing the exact flat result schema of spec.md §6.
func AssembleResponse(snap *timetable.Snapshot, trip *timetable.Trip, key TripKey, segmentIDs []int, lastEdgeFrom, lastEdgeTo geo.Coordinate, lastFix GPSFix) Result {
	snapped, _ := geo.ProjectOntoSegment(geo.Coordinate{Lat: lastFix.Lat, Lon: lastFix.Lon}, lastEdgeFrom, lastEdgeTo)

	route := snap.Routes[key.RouteID]
	var routeShortName, color string
	var routeType int
	if route != nil {
		routeShortName = route.ShortName
		routeType = route.Type
		color, _ = resolveColors(route.FillColor, route.TextColor, routeType)
	} else {
		color, _ = resolveColors("", "", 0)
	}

	dest := ""
	if len(trip.StopTimes) > 0 {
		if last := snap.Stops[trip.StopTimes[len(trip.StopTimes)-1].StopID]; last != nil {
			dest = last.Name
		}
	}

	return Result{
		RouteName:  routeShortName,
		TripID:     trip.ID,
		RouteType:  strconv.Itoa(routeType),
		RouteDest:  dest,
		RouteColor: color,
		ShapeID:    key.ShapeID,
		NextStop:   nextStop(snap, trip, snapped, lastEdgeFrom, lastEdgeTo, segmentIDs),
		Location:   snapped,
	}
}
