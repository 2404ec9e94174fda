package handlers

import (
	"context"
	"errors"

	dom "TodoRPC/internal/domain"
	"TodoRPC/internal/dto"
	"TodoRPC/internal/rpc"
	"TodoRPC/internal/service"
)

type TodoHandler struct {
	svc *service.TodoService
}

func NewTodoHandler(svc *service.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// Procedures returns the todo procedures under their canonical names.
func (h *TodoHandler) Procedures() []rpc.Procedure {
	return []rpc.Procedure{
		rpc.Query("list", h.List),
		rpc.QueryWith("get", h.Get),
		rpc.Mutation("create", h.Create),
		rpc.Mutation("update", h.Update),
		rpc.Mutation("delete", h.Delete),
	}
}

// Aliases maps the names used by the browser client to canonical names.
func Aliases() map[string]string {
	return map[string]string{
		"getTodos":   "list",
		"getTodo":    "get",
		"createTodo": "create",
		"updateTodo": "update",
		"deleteTodo": "delete",
	}
}

// List godoc
// @Summary      List all todos, newest first
// @Tags         todos
// @Produce      json
// @Success      200  {array}   dto.TodoResponse
// @Failure      500  {object}  rpc.Error
// @Router       /list [get]
func (h *TodoHandler) List(ctx context.Context) ([]dto.TodoResponse, error) {
	list, err := h.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	return todosToResponses(list), nil
}

// Get godoc
// @Summary      Get a todo by ID
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        body  body      dto.TodoIDInput  true  "Todo ID"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  rpc.Error
// @Failure      404   {object}  rpc.Error
// @Failure      500   {object}  rpc.Error
// @Router       /get [post]
func (h *TodoHandler) Get(ctx context.Context, in dto.TodoIDInput) (dto.TodoResponse, error) {
	t, err := h.svc.Get(ctx, *in.ID)
	if err != nil {
		return dto.TodoResponse{}, err
	}
	return todoToResponse(t), nil
}

// Create godoc
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTodoInput  true  "Todo body"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  rpc.Error
// @Failure      500   {object}  rpc.Error
// @Router       /create [post]
func (h *TodoHandler) Create(ctx context.Context, in dto.CreateTodoInput) (dto.TodoResponse, error) {
	t, err := h.svc.Create(ctx, in.Text)
	if err != nil {
		return dto.TodoResponse{}, err
	}
	return todoToResponse(t), nil
}

// Update godoc
// @Summary      Update a todo
// @Description  Applies only the fields present and always refreshes updated_at.
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        body  body      dto.UpdateTodoInput  true  "Partial update"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  rpc.Error
// @Failure      404   {object}  rpc.Error
// @Failure      500   {object}  rpc.Error
// @Router       /update [post]
func (h *TodoHandler) Update(ctx context.Context, in dto.UpdateTodoInput) (dto.TodoResponse, error) {
	t, err := h.svc.Update(ctx, *in.ID, dom.TodoPatch{Text: in.Text, Completed: in.Completed})
	if err != nil {
		return dto.TodoResponse{}, err
	}
	return todoToResponse(t), nil
}

// Delete godoc
// @Summary      Delete a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        body  body      dto.TodoIDInput  true  "Todo ID"
// @Success      200   {object}  dto.DeleteTodoResponse
// @Failure      400   {object}  rpc.Error
// @Failure      404   {object}  rpc.Error
// @Failure      500   {object}  rpc.Error
// @Router       /delete [post]
func (h *TodoHandler) Delete(ctx context.Context, in dto.TodoIDInput) (dto.DeleteTodoResponse, error) {
	if err := h.svc.Delete(ctx, *in.ID); err != nil {
		return dto.DeleteTodoResponse{}, err
	}
	return dto.DeleteTodoResponse{Success: true}, nil
}

// MapError translates service errors into RPC errors. Unknown errors map to
// nil so the router reports them as internal.
func MapError(err error) *rpc.Error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return rpc.Validation(err.Error())
	case errors.Is(err, service.ErrNotFound):
		return rpc.NotFound(err.Error())
	}
	return nil
}

func todoToResponse(t dom.Todo) dto.TodoResponse {
	return dto.TodoResponse{
		ID:        t.ID,
		Text:      t.Text,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func todosToResponses(list []dom.Todo) []dto.TodoResponse {
	out := make([]dto.TodoResponse, len(list))
	for i := range list {
		out[i] = todoToResponse(list[i])
	}
	return out
}
