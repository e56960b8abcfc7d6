package injection

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/scriptling/scriptling-mcp/mcp/config"
)

// handleInjectConfig applies a partial configuration document: scripts are
// fetched first so that tool and prompt bindings referencing them resolve.
func (s *Server) handleInjectConfig(w http.ResponseWriter, r *http.Request) {
	var req ConfigUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	response := s.applyUpdate(r, &req)
	status := http.StatusOK
	if response.Summary["error"] > 0 && response.Summary["success"] == 0 {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, response)
}

func (s *Server) applyUpdate(r *http.Request, req *ConfigUpdateRequest) BulkUpdateResponse {
	response := BulkUpdateResponse{Summary: map[string]int{"success": 0, "error": 0}}
	record := func(componentType, name string, err error) {
		result := ComponentResponse{
			Status:        "success",
			Message:       fmt.Sprintf("%s %s registered", componentType, name),
			ComponentType: componentType,
			Name:          name,
		}
		if err != nil {
			result.Status = "error"
			result.Message = err.Error()
		}
		response.Results = append(response.Results, result)
		response.Summary[result.Status]++
	}

	for _, location := range req.Scripts {
		record(componentScript, location, s.svc.AddScripts(r.Context(), []string{location}))
	}
	for _, id := range sortedKeys(req.Tools) {
		record(componentTool, id, s.svc.RegisterTool(id, req.Tools[id], req.Replace()))
	}
	for _, id := range sortedKeys(req.Prompts) {
		record(componentPrompt, id, s.svc.RegisterPrompt(id, req.Prompts[id], req.Replace()))
	}
	return response
}

func (s *Server) handleListComponents(w http.ResponseWriter, _ *http.Request) {
	modules := s.svc.Store().Modules()
	scripts := make([]string, 0, len(modules))
	for _, module := range modules {
		scripts = append(scripts, module.Name)
	}
	writeJSON(w, http.StatusOK, ComponentListing{
		Scripts: scripts,
		Tools:   s.svc.ToolNames(),
		Prompts: s.svc.PromptNames(),
	})
}

func (s *Server) handleAddTool(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	var entry config.ToolEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}
	if err := s.svc.RegisterTool(name, &entry, true); err != nil {
		writeComponentError(w, componentTool, name, err)
		return
	}
	writeJSON(w, http.StatusOK, ComponentResponse{
		Status:        "success",
		Message:       fmt.Sprintf("tool %s registered", name),
		ComponentType: componentTool,
		Name:          name,
	})
}

func (s *Server) handleRemoveTool(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := s.svc.RemoveTool(name); err != nil {
		writeComponentError(w, componentTool, name, err)
		return
	}
	writeJSON(w, http.StatusOK, ComponentResponse{
		Status:        "success",
		Message:       fmt.Sprintf("tool %s removed", name),
		ComponentType: componentTool,
		Name:          name,
	})
}

func (s *Server) handleAddPrompt(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	var entry config.PromptEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}
	if err := s.svc.RegisterPrompt(name, &entry, true); err != nil {
		writeComponentError(w, componentPrompt, name, err)
		return
	}
	writeJSON(w, http.StatusOK, ComponentResponse{
		Status:        "success",
		Message:       fmt.Sprintf("prompt %s registered", name),
		ComponentType: componentPrompt,
		Name:          name,
	})
}

func (s *Server) handleRemovePrompt(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := s.svc.RemovePrompt(name); err != nil {
		writeComponentError(w, componentPrompt, name, err)
		return
	}
	writeJSON(w, http.StatusOK, ComponentResponse{
		Status:        "success",
		Message:       fmt.Sprintf("prompt %s removed", name),
		ComponentType: componentPrompt,
		Name:          name,
	})
}

func writeComponentError(w http.ResponseWriter, componentType, name string, err error) {
	writeJSON(w, http.StatusBadRequest, ComponentResponse{
		Status:        "error",
		Message:       err.Error(),
		ComponentType: componentType,
		Name:          name,
	})
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
