package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/graphstream/pkg/cache"
	gserrors "github.com/matzehuels/graphstream/pkg/errors"
	"github.com/matzehuels/graphstream/pkg/graph"
	gsio "github.com/matzehuels/graphstream/pkg/io"
	"github.com/matzehuels/graphstream/pkg/render/nodelink"
)

// GraphInfo is the body of GET /api/v1/graph.
type GraphInfo struct {
	ID          string  `json:"id"`
	Nodes       int     `json:"nodes"`
	Edges       int     `json:"edges"`
	LastEventID uint64  `json:"last_event_id"`
	Step        float64 `json:"step"`
}

// NodeSummary is one entry of GET /api/v1/nodes.
type NodeSummary struct {
	ID     string `json:"id"`
	Degree int    `json:"degree"`
}

// NodeInfo is the body of GET /api/v1/nodes/{nodeID}.
type NodeInfo struct {
	ID         string         `json:"id"`
	Degree     int            `json:"degree"`
	InDegree   int            `json:"in_degree"`
	OutDegree  int            `json:"out_degree"`
	Neighbors  []string       `json:"neighbors"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// EdgeInfo is the body of GET /api/v1/edges/{edgeID}.
type EdgeInfo struct {
	ID         string         `json:"id"`
	From       string         `json:"from"`
	To         string         `json:"to"`
	Directed   bool           `json:"directed"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

type errorBody struct {
	Code    gserrors.Code `json:"code"`
	Message string        `json:"message"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) graphInfo(w http.ResponseWriter, _ *http.Request) {
	st := s.graph.State()
	writeJSON(w, http.StatusOK, GraphInfo{
		ID:          st.ID,
		Nodes:       len(st.Nodes),
		Edges:       len(st.Edges),
		LastEventID: st.LastEventID,
		Step:        st.Step,
	})
}

// snapshot serves the encoded snapshot of the current revision. A miss
// captures the state and stores it under the looked-up revision, and also
// under the revision it was read at when the graph moved on meanwhile.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := s.keyer.SnapshotKey(s.graph.ID(), s.graph.Revision())
	var st graph.State
	data, err := cache.GetOrCompute(ctx, s.snapshots, cache.KeyTypeSnapshot, key, s.snapshotTTL, func() ([]byte, error) {
		st = s.graph.State()
		return json.Marshal(gsio.FromState(st))
	})
	if err != nil {
		writeError(w, gserrors.Wrap(gserrors.ErrCodeInternal, err, "encode snapshot"))
		return
	}
	if st.Revision != 0 {
		if fresh := s.keyer.SnapshotKey(st.ID, st.Revision); fresh != key {
			if err := s.snapshots.Set(ctx, fresh, data, s.snapshotTTL); err != nil {
				s.logger.Debug("snapshot cache write failed", "err", err)
			}
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

var contentTypes = map[string]string{
	nodelink.FormatDOT: "text/vnd.graphviz",
	nodelink.FormatSVG: "image/svg+xml",
	nodelink.FormatPNG: "image/png",
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	q := r.URL.Query()
	opts := nodelink.Options{
		Detailed:     q.Get("detailed") == "true",
		UsePositions: q.Get("positions") == "true",
	}
	out, err := s.renderer.Render(r.Context(), gsio.Capture(s.graph), opts, format)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (s *Server) listNodes(w http.ResponseWriter, _ *http.Request) {
	nodes := s.graph.Nodes()
	out := make([]NodeSummary, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, NodeSummary{ID: n.ID(), Degree: n.Degree()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "nodeID")
	if err := gserrors.ValidateID(id); err != nil {
		writeError(w, err)
		return
	}
	n := s.graph.Node(id)
	if n == nil {
		writeError(w, gserrors.New(gserrors.ErrCodeElementNotFound, "node %q", id))
		return
	}
	neighbors := n.Neighbors()
	info := NodeInfo{
		ID:         n.ID(),
		Degree:     n.Degree(),
		InDegree:   n.InDegree(),
		OutDegree:  n.OutDegree(),
		Neighbors:  make([]string, 0, len(neighbors)),
		Attributes: plain(n.Attributes()),
	}
	for _, nb := range neighbors {
		info.Neighbors = append(info.Neighbors, nb.ID())
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) getEdge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "edgeID")
	if err := gserrors.ValidateID(id); err != nil {
		writeError(w, err)
		return
	}
	e := s.graph.Edge(id)
	if e == nil {
		writeError(w, gserrors.New(gserrors.ErrCodeElementNotFound, "edge %q", id))
		return
	}
	from, to := e.Node0(), e.Node1()
	if from == nil || to == nil {
		writeError(w, gserrors.New(gserrors.ErrCodeElementNotFound, "edge %q", id))
		return
	}
	writeJSON(w, http.StatusOK, EdgeInfo{
		ID:         e.ID(),
		From:       from.ID(),
		To:         to.ID(),
		Directed:   e.IsDirected(),
		Attributes: plain(e.Attributes()),
	})
}

func plain(attrs map[string]graph.Value) map[string]any {
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = v.Any()
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := gserrors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case gserrors.ErrCodeElementNotFound, gserrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case gserrors.ErrCodeUnsupported, gserrors.ErrCodeInvalidInput, gserrors.ErrCodeInvalidID:
		status = http.StatusBadRequest
	case "":
		code = gserrors.ErrCodeInternal
	}
	writeJSON(w, status, errorBody{Code: code, Message: err.Error()})
}
