package contract

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/hospedagem-api/internal/application/dto"
	rules "github.com/jhoicas/hospedagem-api/internal/domain/contract"
	"github.com/jhoicas/hospedagem-api/internal/domain/entity"
	"github.com/jhoicas/hospedagem-api/internal/domain/repository"
)

// StatusUseCase aplica la máquina de estados del contrato.
type StatusUseCase struct {
	engine
}

// NewStatusUseCase construye el caso de uso.
func NewStatusUseCase(tx TxRunner, opts Options) *StatusUseCase {
	return &StatusUseCase{engine: newEngine(tx, opts)}
}

// Transition cambia el estado del contrato a status. Las guardas (tabla de transiciones,
// fechas y motivo) se evalúan con la fila bloqueada, antes de escribir.
func (uc *StatusUseCase) Transition(ctx context.Context, contractID, status, reason string) (*dto.TransitionResponse, error) {
	to := entity.ContractStatus(status)

	var out *dto.TransitionResponse
	var from entity.ContractStatus
	err := uc.write(ctx, "transition", func(s repository.Stores) error {
		c, err := lock(ctx, s, contractID)
		if err != nil {
			return err
		}
		from = c.Status
		recorded, err := rules.CheckTransition(c, to, reason, uc.today())
		if err != nil {
			return err
		}

		now := uc.now()
		if err := s.Contracts.UpdateStatus(ctx, c.ID, to, recorded, now); err != nil {
			return err
		}
		agg, err := uc.loader.Load(ctx, s, c.ID, false)
		if err != nil {
			return err
		}
		out = &dto.TransitionResponse{
			Contract: agg,
			Transition: dto.TransitionDescription{
				From:   string(from),
				To:     string(to),
				Reason: recorded,
				At:     now,
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.opts.Recorder.ObserveTransition(from, to)
	log.Info().
		Str("contract_id", contractID).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("transición de estado del contrato")
	return out, nil
}
