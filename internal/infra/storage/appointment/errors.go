package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrSlotNotAvailable возвращается, когда интервал пересекается с существующей записью
	// (нарушение exclusion constraint или конфликт сериализации)
	ErrSlotNotAvailable = errors.New("appointment.repository: slot not available")

	// ErrConcurrentUpdate возвращается, когда Postgres отклонил чтение в сериализуемой транзакции (40001)
	ErrConcurrentUpdate = errors.New("appointment.repository: concurrent update")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")

	// ErrCannotCancel возвращается, когда запись уже в финальном статусе
	ErrCannotCancel = errors.New("appointment.repository: appointment cannot be cancelled")
)
