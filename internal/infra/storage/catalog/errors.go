package catalog

import "errors"

var (
	// ErrVariantNotFound возвращается, когда вариант услуги не найден
	ErrVariantNotFound = errors.New("catalog.repository: variant not found")

	// ErrMasterNotFound возвращается, когда мастер не найден
	ErrMasterNotFound = errors.New("catalog.repository: master not found")

	// ErrDuplicateMaster возвращается при попытке создать мастера с существующим ID
	ErrDuplicateMaster = errors.New("catalog.repository: master already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("catalog.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("catalog.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("catalog.repository: failed to scan row")
)
