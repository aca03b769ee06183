package domain

import "time"

// SyncPhase é a fase corrente de uma execução de sincronização.
type SyncPhase string

const (
	SyncPhaseIdle            SyncPhase = "idle"
	SyncPhaseListing         SyncPhase = "listing"
	SyncPhaseFiltering       SyncPhase = "filtering"
	SyncPhaseFetchingDetails SyncPhase = "fetching_details"
	SyncPhaseSaving          SyncPhase = "saving"
	SyncPhaseCompleted       SyncPhase = "completed"
	SyncPhaseError           SyncPhase = "error"
)

// syncPhaseOrder define a ordem estrita das fases dentro de uma execução.
var syncPhaseOrder = map[SyncPhase]int{
	SyncPhaseIdle:            0,
	SyncPhaseListing:         1,
	SyncPhaseFiltering:       2,
	SyncPhaseFetchingDetails: 3,
	SyncPhaseSaving:          4,
	SyncPhaseCompleted:       5,
}

// Before reporta se p antecede other na ordem de fases. A fase de erro
// é terminal e alcançável de qualquer ponto.
func (p SyncPhase) Before(other SyncPhase) bool {
	if p == SyncPhaseError || other == SyncPhaseError {
		return other == SyncPhaseError
	}
	return syncPhaseOrder[p] < syncPhaseOrder[other]
}

// SyncMode distingue sincronização incremental de reverificação completa.
type SyncMode string

const (
	// SyncModeSmart busca apenas pedidos ainda desconhecidos localmente.
	SyncModeSmart SyncMode = "smart"
	// SyncModeFull reprocessa todos os pedidos da janela informada.
	SyncModeFull SyncMode = "full"
)

// SyncProgress é o snapshot publicado durante uma execução para consumo
// do polling do painel. Sobrescrito continuamente; o RunID permite ao
// consumidor distinguir execuções.
type SyncProgress struct {
	RunID        string     `json:"run_id"`
	Mode         SyncMode   `json:"mode"`
	IsRunning    bool       `json:"is_running"`
	Phase        SyncPhase  `json:"phase"`
	CurrentStep  string     `json:"current_step"`
	CurrentOrder int        `json:"current_order"`
	TotalOrders  int        `json:"total_orders"`
	Percentage   float64    `json:"percentage"`
	Error        string     `json:"error,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// SyncSummary é o resultado final de uma execução. Created/Updated
// refletem o efeito real no banco (inserção vs sobrescrita), não a
// contagem da listagem; Failed torna visível o que foi pulado.
type SyncSummary struct {
	RunID    string `json:"run_id"`
	Total    int    `json:"total"`
	New      int    `json:"new"`
	Existing int    `json:"existing"`
	Created  int    `json:"created"`
	Updated  int    `json:"updated"`
	Failed   int    `json:"failed"`
}
