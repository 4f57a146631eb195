// Package http exposes the container over a small inspection HTTP surface.
//
// # Router
//
// Router wraps chi with request logging, panic recovery and request IDs.
//
//	r := gohttp.NewRouter(logger)
//	r.Get("/hello/{name}", func(w http.ResponseWriter, req *http.Request) {
//	    gohttp.NewResponse(w).Success(gohttp.Param(req, "name"))
//	})
//
// # Inspection
//
//	gohttp.Inspect(r, container, collector.Registry())
//
//	GET    /healthz                    // 200 {"data": {"status": "ok"}}
//	GET    /services                   // 200 {"data": {"services": ["mailer"], "count": 1}}
//	GET    /services/mailer            // 200 {"data": {"name": "mailer", "registered": true}}
//	GET    /services/mailer?resolve=1  // adds "type": "*mail.Mailer"
//	DELETE /services/mailer            // only with WithRemoval()
//	GET    /metrics                    // Prometheus text exposition
//
// # Response
//
//	res := gohttp.NewResponse(w)
//	res.JSON(200, data)           // raw JSON with status
//	res.Success(data)             // 200 {"data": ...}
//	res.Error(400, "bad input")   // {"message": "bad input"}
//	res.NotFound()                // 404 {"message": "Not found."}
//	res.Failure(500, err)         // {"message": ..., "kind": ..., "code": ...}
package http
