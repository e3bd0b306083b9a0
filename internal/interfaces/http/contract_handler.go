package http

import (
	"github.com/gofiber/fiber/v2"

	appcontract "github.com/jhoicas/hospedagem-api/internal/application/contract"
	"github.com/jhoicas/hospedagem-api/internal/application/dto"
)

// ContractHandler maneja las peticiones HTTP de contratos de hospedagem (protegido).
type ContractHandler struct {
	contracts   *appcontract.ContractUseCase
	composition *appcontract.CompositionUseCase
	status      *appcontract.StatusUseCase
}

// NewContractHandler construye el handler.
func NewContractHandler(
	contracts *appcontract.ContractUseCase,
	composition *appcontract.CompositionUseCase,
	status *appcontract.StatusUseCase,
) *ContractHandler {
	return &ContractHandler{contracts: contracts, composition: composition, status: status}
}

// Create godoc
// @Summary      Crear contrato de hospedagem
// @Description  Crea el contrato en pending_approval con sus pets y servicios iniciales (todo o nada).
// @Tags         contracts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateContractRequest  true  "facility_id, owner_id, fechas AAAA-MM-DD, pet_ids y servicios por pet"
// @Success      201   {object}  dto.CreateContractResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/contracts [post]
func (h *ContractHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateContractRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateBody(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.contracts.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener contrato
// @Tags         contracts
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del contrato (UUID)"
// @Success      200  {object}  dto.ContractAggregate
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/contracts/{id} [get]
func (h *ContractHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.contracts.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListByOwner godoc
// @Summary      Contratos de un tutor
// @Tags         contracts
// @Security     Bearer
// @Produce      json
// @Param        ownerId  path      string  true   "ID del tutor (UUID)"
// @Param        status   query     string  false  "Filtrar por estado"
// @Success      200      {object}  dto.ContractListResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /api/owners/{ownerId}/contracts [get]
func (h *ContractHandler) ListByOwner(c *fiber.Ctx) error {
	out, err := h.contracts.ListByOwner(c.UserContext(), c.Params("ownerId"), c.Query("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar fechas del contrato
// @Description  Solo contratos editables. clear_end_date deja la salida abierta.
// @Tags         contracts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                     true  "ID del contrato (UUID)"
// @Param        body  body      dto.UpdateContractRequest  true  "start_date, end_date o clear_end_date"
// @Success      200   {object}  dto.ContractAggregate
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/contracts/{id} [patch]
func (h *ContractHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateContractRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateBody(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.contracts.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar contrato
// @Description  Elimina el contrato con sus pets y líneas de servicio. Requiere rol admin o staff.
// @Tags         contracts
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del contrato (UUID)"
// @Success      200  {object}  dto.DeleteContractResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/contracts/{id} [delete]
func (h *ContractHandler) Delete(c *fiber.Ctx) error {
	out, err := h.contracts.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AttachPets godoc
// @Summary      Vincular pets al contrato
// @Tags         contracts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "ID del contrato (UUID)"
// @Param        body  body      dto.AttachPetsRequest  true  "pet_ids"
// @Success      200   {object}  dto.AttachPetsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/contracts/{id}/pets [post]
func (h *ContractHandler) AttachPets(c *fiber.Ctx) error {
	var in dto.AttachPetsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateBody(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.composition.AttachPets(c.UserContext(), c.Params("id"), in.PetIDs)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DetachPet godoc
// @Summary      Desvincular pet
// @Description  Elimina también las líneas de servicio del pet. Nunca el último pet.
// @Tags         contracts
// @Security     Bearer
// @Produce      json
// @Param        id     path      string  true  "ID del contrato (UUID)"
// @Param        petId  path      string  true  "ID del pet (UUID)"
// @Success      200    {object}  dto.DetachPetResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Failure      409    {object}  dto.ErrorResponse
// @Failure      422    {object}  dto.ErrorResponse
// @Router       /api/contracts/{id}/pets/{petId} [delete]
func (h *ContractHandler) DetachPet(c *fiber.Ctx) error {
	out, err := h.composition.DetachPet(c.UserContext(), c.Params("id"), c.Params("petId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AttachServices godoc
// @Summary      Agregar servicios por pet
// @Description  El precio unitario se congela al insertar. Una selección inválida aborta el lote.
// @Tags         contracts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                     true  "ID del contrato (UUID)"
// @Param        body  body      dto.AttachServicesRequest  true  "services: pet_id y service_ids"
// @Success      200   {object}  dto.AttachServicesResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/contracts/{id}/services [post]
func (h *ContractHandler) AttachServices(c *fiber.Ctx) error {
	var in dto.AttachServicesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateBody(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.composition.AttachServices(c.UserContext(), c.Params("id"), in.Services)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DetachService godoc
// @Summary      Quitar línea de servicio
// @Tags         contracts
// @Security     Bearer
// @Produce      json
// @Param        id         path      string  true  "ID del contrato (UUID)"
// @Param        petId      path      string  true  "ID del pet (UUID)"
// @Param        serviceId  path      string  true  "ID del servicio (UUID)"
// @Success      200        {object}  dto.DetachServiceResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Failure      409        {object}  dto.ErrorResponse
// @Router       /api/contracts/{id}/pets/{petId}/services/{serviceId} [delete]
func (h *ContractHandler) DetachService(c *fiber.Ctx) error {
	out, err := h.composition.DetachService(c.UserContext(), c.Params("id"), c.Params("petId"), c.Params("serviceId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateServiceQuantity godoc
// @Summary      Cambiar cantidad de una línea de servicio
// @Tags         contracts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id         path      string                            true  "ID del contrato (UUID)"
// @Param        petId      path      string                            true  "ID del pet (UUID)"
// @Param        serviceId  path      string                            true  "ID del servicio (UUID)"
// @Param        body       body      dto.UpdateServiceQuantityRequest  true  "quantity >= 1"
// @Success      200        {object}  dto.UpdateServiceQuantityResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Failure      409        {object}  dto.ErrorResponse
// @Router       /api/contracts/{id}/pets/{petId}/services/{serviceId} [patch]
func (h *ContractHandler) UpdateServiceQuantity(c *fiber.Ctx) error {
	var in dto.UpdateServiceQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.composition.UpdateServiceQuantity(c.UserContext(),
		c.Params("id"), c.Params("petId"), c.Params("serviceId"), in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Transition godoc
// @Summary      Cambiar estado del contrato
// @Description  Aplica una transición de la máquina de estados. Requiere rol admin o staff.
// @Tags         contracts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                       true  "ID del contrato (UUID)"
// @Param        body  body      dto.TransitionStatusRequest  true  "status y reason opcional"
// @Success      200   {object}  dto.TransitionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/contracts/{id}/status [post]
func (h *ContractHandler) Transition(c *fiber.Ctx) error {
	var in dto.TransitionStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateBody(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.status.Transition(c.UserContext(), c.Params("id"), in.Status, in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Price godoc
// @Summary      Desglose de precio
// @Tags         contracts
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del contrato (UUID)"
// @Success      200  {object}  dto.PricingBreakdown
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/contracts/{id}/price [get]
func (h *ContractHandler) Price(c *fiber.Ctx) error {
	out, err := h.contracts.ComputePrice(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Statement godoc
// @Summary      Extracto del contrato en PDF
// @Tags         contracts
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path      string  true  "ID del contrato (UUID)"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      501  {object}  dto.ErrorResponse
// @Router       /api/contracts/{id}/statement.pdf [get]
func (h *ContractHandler) Statement(c *fiber.Ctx) error {
	id := c.Params("id")
	doc, err := h.contracts.Statement(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="contrato-`+id+`.pdf"`)
	return c.Send(doc)
}
