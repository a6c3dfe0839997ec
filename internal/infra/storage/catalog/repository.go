package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

const (
	tableServices       = "services"
	tableVariants       = "service_variants"
	tableMasters        = "masters"
	tableMasterServices = "master_services"

	pqUniqueViolation = "23505"
)

var variantColumns = []string{
	"id",
	"service_id",
	"duration_minutes",
	"unit_type",
	"units",
	"price",
	"is_active",
	"external_service_id",
}

var masterColumns = []string{
	"id",
	"name",
	"specialization",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий каталога: услуги, варианты, мастера и их связи
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetVariant получает вариант услуги по ID
func (r *Repository) GetVariant(ctx context.Context, id int64) (*domain.ServiceVariant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(variantColumns...).
		From(tableVariants).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetVariant - build select query: %v", ErrBuildQuery, err)
	}

	variant, err := scanVariant(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVariantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetVariant - scan variant: %v", ErrScanRow, err)
	}
	return variant, nil
}

// ListVariantsByExternalIDs получает варианты с любым из переданных внешних ID
func (r *Repository) ListVariantsByExternalIDs(ctx context.Context, externalIDs []string, activeOnly bool) ([]domain.ServiceVariant, error) {
	if len(externalIDs) == 0 {
		return []domain.ServiceVariant{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	where := squirrel.And{squirrel.Eq{"external_service_id": externalIDs}}
	if activeOnly {
		where = append(where, squirrel.Eq{"is_active": true})
	}

	query, args, err := psqlbuilder.Select(variantColumns...).
		From(tableVariants).
		Where(where).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListVariantsByExternalIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListVariantsByExternalIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	variants := make([]domain.ServiceVariant, 0)
	for rows.Next() {
		variant, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListVariantsByExternalIDs - scan variant: %v", ErrScanRow, err)
		}
		variants = append(variants, *variant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListVariantsByExternalIDs - rows error: %v", ErrScanRow, err)
	}
	return variants, nil
}

// GetServicesByIDs получает услуги по списку ID, упорядоченные по ID
func (r *Repository) GetServicesByIDs(ctx context.Context, ids []int64) ([]domain.Service, error) {
	if len(ids) == 0 {
		return []domain.Service{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "category_id", "is_active").
		From(tableServices).
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]domain.Service, 0, len(ids))
	for rows.Next() {
		var (
			service    domain.Service
			categoryID sql.NullInt64
		)
		if err := rows.Scan(&service.ID, &service.Name, &categoryID, &service.IsActive); err != nil {
			return nil, fmt.Errorf("%w: GetServicesByIDs - scan service: %v", ErrScanRow, err)
		}
		if categoryID.Valid {
			id := categoryID.Int64
			service.CategoryID = &id
		}
		services = append(services, service)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - rows error: %v", ErrScanRow, err)
	}
	return services, nil
}

// ListMasters получает мастеров, упорядоченных по ID
func (r *Repository) ListMasters(ctx context.Context, activeOnly bool) ([]domain.Master, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(masterColumns...).From(tableMasters).OrderBy("id ASC")
	if activeOnly {
		builder = builder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListMasters - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListMasters - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	masters := make([]domain.Master, 0)
	for rows.Next() {
		master, err := scanMaster(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListMasters - scan master: %v", ErrScanRow, err)
		}
		masters = append(masters, *master)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListMasters - rows error: %v", ErrScanRow, err)
	}
	return masters, nil
}

// GetMaster получает мастера по ID
func (r *Repository) GetMaster(ctx context.Context, id int64) (*domain.Master, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(masterColumns...).
		From(tableMasters).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetMaster - build select query: %v", ErrBuildQuery, err)
	}

	master, err := scanMaster(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMasterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetMaster - scan master: %v", ErrScanRow, err)
	}
	return master, nil
}

// CreateMaster создает мастера с ID сотрудника провайдера
func (r *Repository) CreateMaster(ctx context.Context, master *domain.Master) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableMasters).
		Columns("id", "name", "specialization", "is_active").
		Values(master.ID, master.Name, master.Specialization, master.IsActive).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: CreateMaster - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&master.CreatedAt, &master.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return fmt.Errorf("%w: id=%d", ErrDuplicateMaster, master.ID)
		}
		return fmt.Errorf("%w: CreateMaster - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

// UpdateMaster обновляет имя и специализацию мастера
func (r *Repository) UpdateMaster(ctx context.Context, master *domain.Master) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableMasters).
		Set("name", master.Name).
		Set("specialization", master.Specialization).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": master.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateMaster - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateMaster - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateMaster - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrMasterNotFound
	}
	return nil
}

// GetMasterServiceIDs получает ID услуг, связанных с мастером
func (r *Repository) GetMasterServiceIDs(ctx context.Context, masterID int64) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("service_id").
		From(tableMasterServices).
		Where(squirrel.Eq{"master_id": masterID}).
		OrderBy("service_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetMasterServiceIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetMasterServiceIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: GetMasterServiceIDs - scan service_id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetMasterServiceIDs - rows error: %v", ErrScanRow, err)
	}
	return ids, nil
}

// AddMasterServices добавляет связи мастер-услуга, существующие пропускаются.
// Возвращает число добавленных связей.
func (r *Repository) AddMasterServices(ctx context.Context, masterID int64, serviceIDs []int64) (int, error) {
	if len(serviceIDs) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Insert(tableMasterServices).Columns("master_id", "service_id")
	for _, id := range serviceIDs {
		builder = builder.Values(masterID, id)
	}

	query, args, err := builder.Suffix("ON CONFLICT (master_id, service_id) DO NOTHING").ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: AddMasterServices - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: AddMasterServices - execute insert: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: AddMasterServices - get rows affected: %v", ErrExecQuery, err)
	}
	return int(rowsAffected), nil
}

// RemoveMasterServices удаляет связи мастера с указанными услугами
func (r *Repository) RemoveMasterServices(ctx context.Context, masterID int64, serviceIDs []int64) (int, error) {
	if len(serviceIDs) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableMasterServices).
		Where(squirrel.Eq{"master_id": masterID}).
		Where(squirrel.Eq{"service_id": serviceIDs}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: RemoveMasterServices - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: RemoveMasterServices - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: RemoveMasterServices - get rows affected: %v", ErrExecQuery, err)
	}
	return int(rowsAffected), nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVariant(row rowScanner) (*domain.ServiceVariant, error) {
	var (
		variant    domain.ServiceVariant
		unitType   string
		externalID sql.NullString
	)
	err := row.Scan(
		&variant.ID,
		&variant.ServiceID,
		&variant.DurationMinutes,
		&unitType,
		&variant.Units,
		&variant.Price,
		&variant.IsActive,
		&externalID,
	)
	if err != nil {
		return nil, err
	}
	variant.UnitType = domain.UnitType(unitType)
	variant.ExternalServiceID = externalID.String
	return &variant, nil
}

func scanMaster(row rowScanner) (*domain.Master, error) {
	var (
		master         domain.Master
		specialization sql.NullString
	)
	err := row.Scan(
		&master.ID,
		&master.Name,
		&specialization,
		&master.IsActive,
		&master.CreatedAt,
		&master.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	master.Specialization = specialization.String
	return &master, nil
}
