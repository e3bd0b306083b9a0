package contract

import (
	"context"
	"time"

	"github.com/jhoicas/hospedagem-api/internal/application/dto"
	"github.com/jhoicas/hospedagem-api/internal/domain/entity"
	"github.com/jhoicas/hospedagem-api/internal/domain/repository"
)

// TxRunner ejecuta fn con los repositorios atados a una misma transacción.
// Run es lectura/escritura (Commit si fn no falla, Rollback si falla); View es de solo lectura.
type TxRunner interface {
	Run(ctx context.Context, fn func(s repository.Stores) error) error
	View(ctx context.Context, fn func(s repository.Stores) error) error
}

// Recorder registra métricas de las operaciones del motor.
type Recorder interface {
	ObserveOperation(op string, err error, elapsed time.Duration)
	ObserveTransition(from, to entity.ContractStatus)
}

// StatementRenderer genera el extracto del contrato (PDF).
type StatementRenderer interface {
	RenderStatement(ctx context.Context, agg *dto.ContractAggregate) ([]byte, error)
}

// Options parámetros de ejecución compartidos por los casos de uso.
type Options struct {
	// Location zona en la que se evalúa "hoy" para las guardas de fecha.
	Location *time.Location
	// StatementTimeout límite de cada operación (30s por defecto).
	StatementTimeout time.Duration
	Now              func() time.Time
	Recorder         Recorder
}

const defaultStatementTimeout = 30 * time.Second

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.StatementTimeout <= 0 {
		o.StatementTimeout = defaultStatementTimeout
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Recorder == nil {
		o.Recorder = nopRecorder{}
	}
	return o
}

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, error, time.Duration) {}
func (nopRecorder) ObserveTransition(entity.ContractStatus, entity.ContractStatus) {}
