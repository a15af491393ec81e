package staff

import "github.com/grandoak/hospital-backend/internal/pkg/interval"

func parseWindow(start, end string) (interval.Interval, error) {
	s, err := interval.ParseTimeOfDay(start)
	if err != nil {
		return interval.Interval{}, err
	}
	e, err := interval.ParseTimeOfDay(end)
	if err != nil {
		return interval.Interval{}, err
	}
	return interval.New(s, e)
}
