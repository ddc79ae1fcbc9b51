package games

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/zhouzirui/crud-games/backend/internal/errs"
	gamesService "github.com/zhouzirui/crud-games/backend/internal/service/games"
	"github.com/zhouzirui/crud-games/backend/internal/validation"
	"github.com/zhouzirui/crud-games/backend/pkg/utils"
)

const maxBodyBytes = 1 << 20

// Handler game服务的HTTP处理器
type Handler struct {
	svc *gamesService.Service
}

// New 创建game处理器
func New(svc *gamesService.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 注册game相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/Games", utils.Handle(h.handleList))
	r.Post("/Games", utils.Handle(h.handleCreate))
	r.Delete("/Games/{id}", utils.Handle(h.handleDelete))
	r.Delete("/Games/", utils.Handle(h.handleDelete))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) error {
	utils.RespondJSON(w, http.StatusOK, h.svc.List(r.Context()))
	return nil
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) error {
	if err := validation.RequireJSON(r.Header.Get("Content-Type")); err != nil {
		return err
	}

	payload, err := validation.ParseBody(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return err
	}

	draft, err := validation.GameDraft(payload)
	if err != nil {
		return err
	}

	created, err := h.svc.Create(r.Context(), draft)
	if err != nil {
		return err
	}

	zerolog.Ctx(r.Context()).Debug().Str("game_id", created.ID).Msg("game created")
	utils.RespondJSON(w, http.StatusOK, created)
	return nil
}

// handleDelete 返回 204，并仍将被删除的 game 写入响应体。
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")
	if id == "" {
		return errs.NewNotFoundError(errs.MessageNotFound)
	}

	deleted, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		return err
	}

	zerolog.Ctx(r.Context()).Debug().Str("game_id", deleted.ID).Msg("game deleted")
	w.Header().Set("X-Deleted-Id", deleted.ID)
	utils.RespondJSON(w, http.StatusNoContent, deleted)
	return nil
}
