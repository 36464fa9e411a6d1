// Warmtarget is a simple HTTP server used for exercising the keepwarm daemon.
// It logs every request it receives, including the query string and User-Agent,
// so the ping randomization is visible end to end.
//
// Usage:
//
//	go run warmtarget.go -port 8081
//
// Endpoints:
//
//	/       responds 200 immediately
//	/flaky  responds 500 roughly half the time
//	/slow   responds after -slow-delay (default 35s, past the daemon timeout)
//	/health responds 200 with "ok"
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"net/http"
	"time"
)

func main() {
	port := flag.Int("port", 8081, "port to listen on")
	slowDelay := flag.Duration("slow-delay", 35*time.Second, "response delay for /slow")
	flag.Parse()

	logRequest := func(r *http.Request, status int) {
		log.Printf("request: path=%s status=%d query=%q user-agent=%q from=%s",
			r.URL.Path, status, r.URL.RawQuery, r.UserAgent(), r.RemoteAddr)
	}

	writeJSON := func(w http.ResponseWriter, status int, body map[string]any) {
		b, _ := json.Marshal(body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write(b)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		logRequest(r, http.StatusOK)
		writeJSON(w, http.StatusOK, map[string]any{
			"status":     "warm",
			"query":      r.URL.RawQuery,
			"user_agent": r.UserAgent(),
		})
	})

	mux.HandleFunc("/flaky", func(w http.ResponseWriter, r *http.Request) {
		if rand.IntN(2) == 0 {
			logRequest(r, http.StatusInternalServerError)
			writeJSON(w, http.StatusInternalServerError, map[string]any{"status": "wobbly"})
			return
		}
		logRequest(r, http.StatusOK)
		writeJSON(w, http.StatusOK, map[string]any{"status": "warm"})
	})

	// ties up the request until well past the daemon's delivery timeout
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(*slowDelay):
		case <-r.Context().Done():
			log.Printf("request: path=%s abandoned by client after timeout", r.URL.Path)
			return
		}
		logRequest(r, http.StatusOK)
		writeJSON(w, http.StatusOK, map[string]any{"status": "finally"})
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("starting warm target on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
