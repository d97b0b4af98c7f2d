package validators

import "villa/pkg/model"

var (
	BookingStatuses = enum(model.AllStatuses)
	BookingTypes    = enum([]model.BookingType{model.BookingTypeStandard, model.BookingTypeLongStayInquiry})
	RecordKinds     = enum([]model.RecordKind{model.RecordKindBooking, model.RecordKindBlock})
	RoomStatuses    = enum([]model.RoomStatus{model.RoomStatusActive, model.RoomStatusMaintenance})
)

func enum[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
