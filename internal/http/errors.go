package httpx

import (
	"errors"
	"net/http"

	"github.com/bhotel/bhotel-ui-api/internal/data"
	"github.com/bhotel/bhotel-ui-api/internal/domain/hotel"
	"github.com/bhotel/bhotel-ui-api/internal/service"
)

// validationErrors are domain validation failures that map to 400 responses.
var validationErrors = []error{
	hotel.ErrRoomNameRequired,
	hotel.ErrRoomNameTooLong,
	hotel.ErrRoomTypeInvalid,
	hotel.ErrRoomPriceInvalid,
	hotel.ErrRoomCapacityInvalid,
	hotel.ErrRoomAmenityUnknown,
	hotel.ErrDescriptionTooLong,
	hotel.ErrBookingRoomRequired,
	hotel.ErrBookingGuestRequired,
	hotel.ErrBookingEmailInvalid,
	hotel.ErrBookingDatesRequired,
	hotel.ErrBookingDateOrder,
	hotel.ErrReviewNameRequired,
	hotel.ErrReviewRatingInvalid,
	hotel.ErrReviewCommentLong,
	hotel.ErrMessageNameRequired,
	hotel.ErrMessageEmailInvalid,
	hotel.ErrMessageBodyRequired,
	hotel.ErrMessageBodyTooLong,
}

// notFoundErrors are repository sentinels that map to 404 responses.
var notFoundErrors = []error{
	data.ErrRoomNotFound,
	data.ErrBookingNotFound,
	data.ErrReviewNotFound,
	data.ErrMessageNotFound,
}

// serviceErrorParams classifies a service-layer error into status code and
// machine error code. Unclassified errors surface as 500 internal_error.
func serviceErrorParams(err error) ErrorParams {
	for _, ve := range validationErrors {
		if errors.Is(err, ve) {
			return ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err}
		}
	}
	for _, nf := range notFoundErrors {
		if errors.Is(err, nf) {
			return ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err}
		}
	}
	switch {
	case errors.Is(err, data.ErrRoomNameExists):
		return ErrorParams{Code: http.StatusConflict, ErrCode: "room_name_exists", Err: err}
	case errors.Is(err, service.ErrRoomUnavailable):
		return ErrorParams{Code: http.StatusConflict, ErrCode: "room_unavailable", Err: err}
	case errors.Is(err, hotel.ErrInvalidTransition):
		return ErrorParams{Code: http.StatusConflict, ErrCode: "invalid_status_transition", Err: err}
	case errors.Is(err, service.ErrImageTypeUnsupported):
		return ErrorParams{Code: http.StatusUnsupportedMediaType, ErrCode: "unsupported_image_type", Err: err}
	}
	return ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal_error", Err: err}
}

// writeServiceError maps a service-layer error onto the HTTP response.
func writeServiceError(w http.ResponseWriter, err error) {
	WriteError(w, serviceErrorParams(err))
}
