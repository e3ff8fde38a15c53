package dashboard

// Summary holds the organisation-wide counters for one day.
type Summary struct {
	Date             string `gorm:"-"`
	ActiveEmployees  int64  `gorm:"column:active_employees"`
	PresentToday     int64  `gorm:"column:present_today"`
	CurrentlyWorking int64  `gorm:"column:currently_working"`
	PendingLeaves    int64  `gorm:"column:pending_leaves"`
	OnLeaveToday     int64  `gorm:"column:on_leave_today"`
}
