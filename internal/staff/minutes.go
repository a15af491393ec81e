package staff

import "github.com/grandoak/hospital-backend/internal/pkg/interval"

// Schedule windows are stored as minutes since midnight.

func minutes(v int) interval.TimeOfDay {
	return interval.TimeOfDay(v)
}

func minutesPtr(v *int) *interval.TimeOfDay {
	if v == nil {
		return nil
	}
	t := interval.TimeOfDay(*v)
	return &t
}

func minutesOrNil(t *interval.TimeOfDay) *int {
	if t == nil {
		return nil
	}
	v := int(*t)
	return &v
}
