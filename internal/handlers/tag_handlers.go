package handlers

import (
	"net/http"

	"timeTracker/internal/handlers/dto"
)

func (h *ItemHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	tags, err := h.Service.ListTags(r.Context(), owner)
	if err != nil {
		handleServiceError(w, r, err, "list_tags")
		return
	}
	responseWithBody(w, http.StatusOK, tags)
}

func (h *ItemHandler) PostTag(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var request dto.CreateTagRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	tag, err := h.Service.CreateTag(r.Context(), owner, request.Text, request.Color)
	if err != nil {
		handleServiceError(w, r, err, "create_tag")
		return
	}
	responseWithBody(w, http.StatusCreated, tag)
}

func (h *ItemHandler) ListLists(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	lists, err := h.Service.ListLists(r.Context(), owner)
	if err != nil {
		handleServiceError(w, r, err, "list_lists")
		return
	}
	responseWithBody(w, http.StatusOK, lists)
}

func (h *ItemHandler) PostList(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var request dto.CreateListRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	list, err := h.Service.CreateList(r.Context(), owner, request.Name)
	if err != nil {
		handleServiceError(w, r, err, "create_list")
		return
	}
	responseWithBody(w, http.StatusCreated, list)
}
