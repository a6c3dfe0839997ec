package domain

// Staff сотрудник провайдера в том виде, в котором он отдается клиентам API
type Staff struct {
	ID             int64
	Name           string
	Specialization string
	Avatar         string
	Rating         float64
	Bookable       bool
	Hidden         bool
	Fired          bool
	Deleted        bool
}

// IsVisible false для скрытых, уволенных и удаленных сотрудников
func (s *Staff) IsVisible() bool {
	return !s.Hidden && !s.Fired && !s.Deleted
}
