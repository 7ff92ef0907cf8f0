package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/jasonlvhit/gocron"
	"github.com/peterbourgon/ff"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"

	"github.com/softwarenerd/GreatCircle/api"
	"github.com/softwarenerd/GreatCircle/fleet"
	"github.com/softwarenerd/GreatCircle/route"
	"github.com/softwarenerd/GreatCircle/xmpp"
)

func main() {

	fs := flag.NewFlagSet("greatcircle", flag.ExitOnError)
	var (
		listen        = fs.String("listen", ":8888", "HTTP listen address")
		routesFile    = fs.String("routes", "", "JSON file of routes to track")
		maxCrossTrack = fs.Float64("max-cross-track", 1000, "distance off track, in meters, that raises an alert")
		checkInterval = fs.Uint64("check-interval", 15, "seconds between off-course checks")
		logLevel      = fs.String("log-level", "info", "log level")
		logFormat     = fs.String("log-format", "text", "log format, text or json")
		cpuprofile    = fs.Bool("cpuprofile", false, "write a CPU profile, flushed on interrupt or when the server stops")
		xmppHost      = fs.String("xmpp-host", "", "")
		xmppJid       = fs.String("xmpp-jid", "", "")
		xmppPassword  = fs.String("xmpp-password", "", "")
		xmppTo        = fs.String("xmpp-to", "", "")
		_             = fs.String("config", "", "config file")
	)
	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("GREATCIRCLE"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser)); err != nil {
		log.Fatal(err)
	}

	if err := setupLogger(*logLevel, *logFormat); err != nil {
		log.Fatalf("Invalid log level '%s': %v", *logLevel, err)
	}

	stopProfile := func() {}
	if *cpuprofile {
		stopProfile = profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop
	}

	routes := map[string]route.Route{}
	if *routesFile != "" {
		var err error
		routes, err = route.Load(*routesFile)
		if err != nil {
			log.Fatal(err)
		}
	}
	log.Infof("Load %d routes", len(routes))

	x := xmpp.Xmpp{Config: xmpp.Config{Host: *xmppHost, Jid: *xmppJid, Password: *xmppPassword, To: *xmppTo}}

	var notifier fleet.Notifier
	if x.Configured() {
		notifier = x
	} else {
		log.Warn("No xmpp config, off-course alerts are only logged")
	}

	f := fleet.New(routes, *maxCrossTrack, notifier)

	s := gocron.NewScheduler()
	if err := s.Every(*checkInterval).Seconds().Do(func() { f.Check() }); err != nil {
		log.Fatal(err)
	}
	s.Start()

	router := api.InitServer(f)

	var handler http.Handler = router
	handler = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(handler)
	handler = handlers.RecoveryHandler(handlers.RecoveryLogger(log.StandardLogger()))(handler)
	handler = handlers.CombinedLoggingHandler(log.StandardLogger().WriterLevel(log.DebugLevel), handler)

	log.Infof("Start server on %s", *listen)
	log.Fatal(serve(*listen, handler, stopProfile))
}

// serve runs the HTTP server and calls stop once it returns. The caller exits
// through log.Fatal, which skips deferred calls.
func serve(listen string, handler http.Handler, stop func()) error {
	err := http.ListenAndServe(listen, handler)
	stop()
	return err
}
