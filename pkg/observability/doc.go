/*
Package observability turns engine lifecycle hooks into Prometheus metrics and
structured log lines.

	m := observability.NewMetrics(prometheus.DefaultRegisterer)
	eng, _ := nodedialog.New(path, nodedialog.WithLifecycleHooks(m.Hooks(logger)))
*/
package observability
