package contract

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/hospedagem-api/internal/domain"
	rules "github.com/jhoicas/hospedagem-api/internal/domain/contract"
	"github.com/jhoicas/hospedagem-api/internal/domain/entity"
	"github.com/jhoicas/hospedagem-api/internal/domain/repository"
)

// engine base común: transacciones con límite de tiempo, reloj y métricas.
type engine struct {
	tx     TxRunner
	loader *Loader
	opts   Options
}

func newEngine(tx TxRunner, opts Options) engine {
	return engine{tx: tx, loader: NewLoader(), opts: opts.withDefaults()}
}

func (e engine) now() time.Time { return e.opts.Now().UTC() }

func (e engine) today() time.Time { return entity.Today(e.opts.Now(), e.opts.Location) }

// write ejecuta fn en una transacción de escritura; cualquier error hace rollback completo.
func (e engine) write(ctx context.Context, op string, fn func(s repository.Stores) error) error {
	return e.run(ctx, op, e.tx.Run, fn)
}

// read ejecuta fn en una transacción de solo lectura (snapshot consistente).
func (e engine) read(ctx context.Context, op string, fn func(s repository.Stores) error) error {
	return e.run(ctx, op, e.tx.View, fn)
}

func (e engine) run(
	ctx context.Context,
	op string,
	runner func(context.Context, func(repository.Stores) error) error,
	fn func(s repository.Stores) error,
) error {
	started := time.Now()
	ctx, cancel := context.WithTimeout(ctx, e.opts.StatementTimeout)
	defer cancel()

	err := runner(ctx, fn)
	if err != nil {
		err = classifyDeadline(ctx, err)
	}
	e.opts.Recorder.ObserveOperation(op, err, time.Since(started))
	return err
}

// classifyDeadline convierte un vencimiento de contexto no clasificado en Timeout.
func classifyDeadline(ctx context.Context, err error) error {
	if _, ok := domain.AsError(err); ok {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &domain.Error{
			Kind:    domain.ErrTimeout,
			Code:    domain.CodeTimeout,
			Message: "la operación excedió el tiempo máximo permitido",
		}
	}
	return err
}

// lockEditable bloquea el contrato y verifica que admita edición.
func lockEditable(ctx context.Context, s repository.Stores, id string) (*entity.Contract, error) {
	c, err := lock(ctx, s, id)
	if err != nil {
		return nil, err
	}
	if err := rules.EnsureEditable(c); err != nil {
		return nil, err
	}
	return c, nil
}

func lock(ctx context.Context, s repository.Stores, id string) (*entity.Contract, error) {
	c, err := s.Contracts.GetForUpdate(ctx, entity.CanonicalID(id))
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("contrato", id)
	}
	return c, nil
}
