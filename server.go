package translocrt

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"google.golang.org/protobuf/encoding/prototext"
	proto "google.golang.org/protobuf/proto"
)

// defaultHandler answers the root route for health probes.
type defaultHandler struct{}

func (h *defaultHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Add("Application-Status", "OK")
}

// feedHandler serves /rt/{agency_id}/{agency_code}.
type feedHandler struct {
	log    *log.Logger
	loader *Loader
}

func (h *feedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	agencyID, err := strconv.ParseUint(vars["agency_id"], 10, 64)
	if err != nil {
		http.Error(w, "agency_id must be an unsigned integer", http.StatusBadRequest)
		return
	}
	agencyCode := vars["agency_code"]

	// Garbage or absent values default to false, tolerating sloppy
	// consumer configuration.
	transitWorkaround, _ := strconv.ParseBool(r.FormValue("transit_workaround"))
	asText := strings.ToLower(r.FormValue("text")) == "true"

	feed, err := h.loader.BuildFeed(r.Context(), agencyID, agencyCode, transitWorkaround)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Client went away; nothing to answer.
			return
		}
		h.log.Printf("building feed for agency %d (%s): %s", agencyID, agencyCode, err)
		http.Error(w, "Error serving request", http.StatusInternalServerError)
		return
	}

	if asText {
		h.writeText(feed, w)
	} else {
		h.writeBinary(feed, w)
	}
}

func (h *feedHandler) writeBinary(feed proto.Message, w http.ResponseWriter) {
	body, err := proto.Marshal(feed)
	if err != nil {
		h.log.Printf("failed to marshal FeedMessage, error:%s", err)
		http.Error(w, "Error serving request", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.google.protobuf")
	if _, err := w.Write(body); err != nil {
		h.log.Printf("error writing feed response, error:%s", err)
	}
}

func (h *feedHandler) writeText(feed proto.Message, w http.ResponseWriter) {
	body := prototext.MarshalOptions{Multiline: true}.Format(feed)
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte(body)); err != nil {
		h.log.Printf("error writing feed response, error:%s", err)
	}
}

// NewRouter wires up the HTTP routes.
func NewRouter(logger *log.Logger, loader *Loader) *mux.Router {
	r := mux.NewRouter()
	r.Handle("/", &defaultHandler{})
	r.Handle("/rt/{agency_id}/{agency_code}", &feedHandler{log: logger, loader: loader})
	return r
}

// NewServer creates a configured http.Server serving realtime feeds.
func NewServer(logger *log.Logger, loader *Loader, addr string) *http.Server {
	return &http.Server{
		Addr: addr,
		// Write timeout has to cover a cold-cache ZIP download.
		WriteTimeout: time.Second * 90,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      NewRouter(logger, loader),
	}
}
