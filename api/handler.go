// Package api exposes the planning service over HTTP: table registration
// and lookup, plus conversion of Substrait plan documents into logical
// plans with scan cost estimates.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"google.golang.org/protobuf/encoding/protojson"

	pb "github.com/substrait-io/substrait-protobuf/go/substraitpb"

	"riverplan/catalog"
	"riverplan/internal/substraitio"
	"riverplan/plan"
	"riverplan/rule"
)

// Handler serves the planning API over an in-memory catalog registry.
type Handler struct {
	registry           *catalog.Registry
	rules              []rule.Rule
	defaultRowEstimate float64
	logger             *slog.Logger
}

// NewHandler creates a handler over the given registry. The rewrite rule
// set is fixed: scan conversion plus the structural cleanup rules.
func NewHandler(registry *catalog.Registry, defaultRowEstimate float64, logger *slog.Logger) *Handler {
	return &Handler{
		registry: registry,
		rules: []rule.Rule{
			rule.NewScanConversion(registry),
			rule.ProjectMerge{},
			rule.CrossJoinEliminate{},
		},
		defaultRowEstimate: defaultRowEstimate,
		logger:             logger,
	}
}

type columnPayload struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

type tablePayload struct {
	Name             string            `json:"name"`
	Columns          []columnPayload   `json:"columns"`
	Properties       map[string]string `json:"properties,omitempty"`
	AppendOnly       bool              `json:"append_only"`
	Materialized     bool              `json:"materialized"`
	Stream           bool              `json:"stream"`
	RowFormat        string            `json:"row_format,omitempty"`
	RowCountEstimate *float64          `json:"row_count_estimate,omitempty"`
}

type tableResponse struct {
	Name             string          `json:"name"`
	Columns          []columnPayload `json:"columns"`
	ColumnIDs        []int32         `json:"column_ids"`
	Stream           bool            `json:"stream"`
	RowCountEstimate float64         `json:"row_count_estimate"`
}

// RegisterTable handles POST /v1/tables.
func (h *Handler) RegisterTable(w http.ResponseWriter, r *http.Request) {
	var req tablePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	b := catalog.NewBuilder(req.Name).
		SetAppendOnly(req.AppendOnly).
		SetMaterialized(req.Materialized).
		SetStream(req.Stream).
		SetRowFormat(req.RowFormat)
	if len(req.Properties) > 0 {
		b.SetProperties(req.Properties)
	}
	for _, c := range req.Columns {
		b.AddColumn(c.Name, catalog.ColumnDescriptor{
			Type:     catalog.DataType(c.Type),
			Nullable: c.Nullable,
		})
	}

	def, err := b.Build()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	estimate := h.defaultRowEstimate
	if req.RowCountEstimate != nil {
		estimate = *req.RowCountEstimate
	}

	table, err := h.registry.Register(def, estimate)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	h.logger.Info("table registered", "table", def.Name(), "columns", len(req.Columns), "stream", def.Stream())
	writeJSON(w, http.StatusCreated, toTableResponse(table))
}

// ListTables handles GET /v1/tables.
func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	tables := h.registry.List()
	out := make([]tableResponse, len(tables))
	for i, t := range tables {
		out[i] = toTableResponse(t)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetTable handles GET /v1/tables/{name}.
func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	table, err := h.registry.Resolve(catalog.TableID(name))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toTableResponse(table))
}

type scanCostResponse struct {
	Table       string   `json:"table"`
	Columns     []int32  `json:"columns"`
	ColumnNames []string `json:"column_names"`
	Stream      bool     `json:"stream"`
	Rows        float64  `json:"rows"`
	CPU         float64  `json:"cpu"`
	IO          float64  `json:"io"`
}

type costPayload struct {
	Rows float64 `json:"rows"`
	CPU  float64 `json:"cpu"`
	IO   float64 `json:"io"`
}

type treeResponse struct {
	Explain string             `json:"explain"`
	Scans   []scanCostResponse `json:"scans"`
	Total   costPayload        `json:"total"`
}

type convertResponse struct {
	Tables []string       `json:"tables"`
	Trees  []treeResponse `json:"trees"`
}

// ConvertPlan handles POST /v1/plans/convert. The body is a Substrait plan
// in protojson form; the response carries each converted tree's explain
// output and the cost of every logical scan in it.
func (h *Handler) ConvertPlan(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, 4<<20)
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}

	var sp pb.Plan
	if err := protojson.Unmarshal(raw, &sp); err != nil {
		writeError(w, http.StatusBadRequest, "invalid substrait plan: "+err.Error())
		return
	}

	// Validate every referenced table up front so an unknown identifier is
	// reported by name instead of surfacing mid-rewrite.
	names := substraitio.ExtractTableNames(&sp)
	for _, name := range names {
		if _, err := h.registry.Resolve(catalog.TableID(name)); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
	}

	trees, err := substraitio.PlanTrees(&sp)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := convertResponse{Tables: names, Trees: make([]treeResponse, 0, len(trees))}
	for _, tree := range trees {
		converted, err := rule.Rewrite(tree, h.rules)
		if err != nil {
			if errors.Is(err, catalog.ErrUnresolvedTable) {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		tr := treeResponse{Explain: plan.Explain(converted)}
		var total plan.Cost
		for _, s := range plan.Scans(converted) {
			cost := s.EstimateCost(s.Table().RowCountEstimate())
			total = total.Add(cost)
			cols := s.ColumnIDs()
			ids := make([]int32, len(cols))
			colNames := make([]string, len(cols))
			for i, c := range cols {
				ids[i] = int32(c)
				colNames[i] = s.Table().ColumnName(c)
			}
			tr.Scans = append(tr.Scans, scanCostResponse{
				Table:       string(s.TableID()),
				Columns:     ids,
				ColumnNames: colNames,
				Stream:      s.Stream(),
				Rows:        cost.Rows,
				CPU:         cost.CPU,
				IO:          cost.IO,
			})
		}
		tr.Total = costPayload{Rows: total.Rows, CPU: total.CPU, IO: total.IO}
		resp.Trees = append(resp.Trees, tr)
	}

	writeJSON(w, http.StatusOK, resp)
}

func toTableResponse(t *catalog.Table) tableResponse {
	def := t.Definition()
	cols := def.Columns()
	payload := make([]columnPayload, len(cols))
	for i, c := range cols {
		payload[i] = columnPayload{Name: c.Name, Type: string(c.Desc.Type), Nullable: c.Desc.Nullable}
	}
	ids := t.SortedColumnIDs()
	rawIDs := make([]int32, len(ids))
	for i, id := range ids {
		rawIDs[i] = int32(id)
	}
	return tableResponse{
		Name:             def.Name(),
		Columns:          payload,
		ColumnIDs:        rawIDs,
		Stream:           def.Stream(),
		RowCountEstimate: t.RowCountEstimate(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"code": status, "message": message})
}
