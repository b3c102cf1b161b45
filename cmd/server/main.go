package main

import (
	"flag"
	"log"
	"net/http"

	_ "net/http/pprof"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"meshplanner/pkg/planner"
	"meshplanner/pkg/planstore"
	"meshplanner/pkg/server/rest"
	"meshplanner/pkg/service"
)

var (
	listenAddr = flag.String("listenaddr", ":5000", "server listen address")
	storeDir   = flag.String("storedir", "meshplannerDB", "plan history pebble db directory")
)

func main() {
	flag.Parse()

	store, err := planstore.Open(*storeDir)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	svc := service.NewPlannerService(service.PlannerFunc(planner.Plan), store, nil)

	reg := prometheus.NewRegistry()
	m := rest.NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(rest.PromeHttpMiddleware(m))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Mount("/debug", middleware.Profiler())
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	rest.TopologyRouter(r, svc, m)

	log.Printf("mesh topology planner listening at %s\n", *listenAddr)
	log.Fatal(http.ListenAndServe(*listenAddr, r))
}
