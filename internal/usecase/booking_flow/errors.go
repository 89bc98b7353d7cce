package booking_flow

import "errors"

var (
	// ErrFlowNotFound возвращается, когда сессия записи не найдена или истекла
	ErrFlowNotFound = errors.New("booking_flow: flow not found")

	// ErrFlowForbidden возвращается, когда сессия принадлежит другому клиенту
	ErrFlowForbidden = errors.New("booking_flow: flow belongs to another client")

	// ErrInvalidTransition возвращается, когда действие недопустимо в текущем шаге
	ErrInvalidTransition = errors.New("booking_flow: action is not allowed in current state")

	// ErrDateNotSelectable возвращается при выборе прошедшего, нерабочего или занятого дня
	ErrDateNotSelectable = errors.New("booking_flow: date is not selectable")

	// ErrTimeNotSelectable возвращается при выборе времени, которого нет среди слотов
	ErrTimeNotSelectable = errors.New("booking_flow: time is not selectable")

	// ErrConfirmInProgress возвращается при повторном подтверждении до завершения первого
	ErrConfirmInProgress = errors.New("booking_flow: confirmation already in progress")

	// ErrProfessionalNotFound возвращается, когда мастер не найден
	ErrProfessionalNotFound = errors.New("booking_flow: professional not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("booking_flow: service not found")

	// ErrSlotNotAvailable возвращается, когда слот заняли до подтверждения
	ErrSlotNotAvailable = errors.New("booking_flow: slot is not available")

	// ErrReservationRejected возвращается, когда запись отклонена по бизнес-правилам
	ErrReservationRejected = errors.New("booking_flow: reservation rejected")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("booking_flow: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("booking_flow: internal error")
)
