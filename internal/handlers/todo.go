package handlers

import (
	"net/http"

	dom "TodoAPI/internal/domain"
	"TodoAPI/internal/dto"
	"TodoAPI/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const messageDeleted = "Todo deleted successfully"

type TodoHandler struct {
	svc *service.TodoService
}

func NewTodoHandler(svc *service.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// List godoc
// @Summary      List all todos
// @Description  Newest first.
// @Tags         todos
// @Produce      json
// @Success      200  {array}   dto.TodoResponse
// @Failure      500  {object}  middleware.ErrorResponse
// @Router       /todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTodoResponses(list))
}

// GetByID godoc
// @Summary      Get a todo by ID
// @Tags         todos
// @Produce      json
// @Param        id   path      string  true  "Todo ID"
// @Success      200  {object}  dto.TodoResponse
// @Failure      404  {object}  middleware.ErrorResponse
// @Failure      422  {object}  middleware.ErrorResponse
// @Failure      500  {object}  middleware.ErrorResponse
// @Router       /todos/{id} [get]
func (h *TodoHandler) GetByID(c *gin.Context) {
	t, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTodoResponse(t))
}

// Create godoc
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTodoRequest  true  "Todo body"
// @Success      201   {object}  dto.TodoResponse
// @Failure      400   {object}  middleware.ErrorResponse
// @Failure      409   {object}  middleware.ErrorResponse
// @Failure      422   {object}  middleware.ErrorResponse
// @Router       /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req dto.CreateTodoRequest
	if !bindBody(c, &req) {
		return
	}
	t, err := h.svc.Create(c.Request.Context(), req.ToDomain())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewTodoResponse(t))
}

// Update godoc
// @Summary      Update a todo
// @Description  Partial update. At least one field is required.
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "Todo ID"
// @Param        body  body      dto.UpdateTodoRequest  true  "Fields to change"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  middleware.ErrorResponse
// @Failure      404   {object}  middleware.ErrorResponse
// @Failure      422   {object}  middleware.ErrorResponse
// @Router       /todos/{id} [put]
func (h *TodoHandler) Update(c *gin.Context) {
	var req dto.UpdateTodoRequest
	if !bindBody(c, &req) {
		return
	}
	t, err := h.svc.Update(c.Request.Context(), c.Param("id"), req.ToPatch())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTodoResponse(t))
}

// Delete godoc
// @Summary      Delete a todo
// @Tags         todos
// @Produce      json
// @Param        id   path      string  true  "Todo ID"
// @Success      200  {object}  dto.DeleteTodoResponse
// @Failure      404  {object}  middleware.ErrorResponse
// @Failure      500  {object}  middleware.ErrorResponse
// @Router       /todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	t, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.DeleteTodoResponse{Message: messageDeleted, Todo: dto.NewTodoResponse(t)})
}

// bindBody decodes the body cached by the validation middleware.
func bindBody(c *gin.Context, obj any) bool {
	if err := c.ShouldBindBodyWith(obj, binding.JSON); err != nil {
		_ = c.Error(dom.NewAppError(http.StatusBadRequest, "Malformed JSON body"))
		return false
	}
	return true
}
