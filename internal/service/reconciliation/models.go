package reconciliation

// Config параметры сверки
type Config struct {
	// Concurrency сколько мастеров сверяется одновременно
	Concurrency int
}

// SyncResult итог добавления недостающих связей
type SyncResult struct {
	MasterID  int64
	Requested []int64
	Added     int
}

// RemoveResult итог удаления связей
type RemoveResult struct {
	MasterID  int64
	Requested []int64
	Removed   int
}

// defaultMasterName имя для сотрудника, у которого провайдер не прислал имя
const defaultMasterName = "Без имени"
