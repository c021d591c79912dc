// backend-go/internal/domain/status.go
package domain

// Coverage statuses as they appear in the workbook.
const (
	CoverageActive    = "Aktif"
	CoveragePassive   = "Pasif"
	CoverageCancelled = "İptal"
)

// Channel classifications derived from the dealer type code.
const (
	ChannelMilitary      = "Askeriye"
	ChannelPrisonCanteen = "Cezaevi Kantini"
	ChannelLocalChain    = "Yerel Zincir"
	ChannelFuelStation   = "Akaryakıt İstasyonu"
	ChannelTraditional   = "Geleneksel"
	ChannelGeneral       = "Genel Piyasa"
	ChannelUnclassified  = "Sınıflandırılmamış"
)

// Hierarchy rollup kinds.
const (
	RollupRep        = "rep"
	RollupTeam       = "team"
	RollupSupervisor = "supervisor"
)

// Ingest run statuses.
const (
	RunPending   = "pending"
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// DebtNone is the label used when a dealer has no outstanding balance.
const DebtNone = "Borcu yoktur"
