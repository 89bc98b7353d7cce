package get_agenda

import (
	"errors"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
)

var errMissingRange = errors.New("from and to are required")

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(
	professionalID int64,
	userID int64,
	fromStr string,
	toStr string,
	statusStr string,
	includeReleasedStr string,
) (*models.AgendaRequest, error) {
	if fromStr == "" || toStr == "" {
		return nil, errMissingRange
	}

	from, err := time.Parse(domain.DateFormat, fromStr)
	if err != nil {
		return nil, err
	}
	to, err := time.Parse(domain.DateFormat, toStr)
	if err != nil {
		return nil, err
	}

	req := &models.AgendaRequest{
		UserID:         userID,
		ProfessionalID: professionalID,
		From:           from,
		To:             to,
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if includeReleasedStr != "" {
		includeReleased, err := strconv.ParseBool(includeReleasedStr)
		if err != nil {
			return nil, err
		}
		req.IncludeReleased = includeReleased
	}

	return req, nil
}
