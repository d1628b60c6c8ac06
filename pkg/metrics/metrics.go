// This file is part of MinIO ext2sb
// Copyright (c) 2022 MinIO, Inc.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package metrics

import (
	"context"
	"net"
	"net/http"

	"github.com/minio/ext2sb/pkg/image"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"k8s.io/klog/v2"
)

func newRegistry(paths []string, opts image.Options) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(newMetricsCollector(paths, opts))
	registry.MustRegister(image.Collectors()...)
	return registry
}

// Handler returns the metrics handler of the images at paths.
func Handler(paths []string, opts image.Options) http.Handler {
	registry := newRegistry(paths, opts)

	gatherers := prometheus.Gatherers{
		registry,
	}

	return promhttp.InstrumentMetricHandler(
		registry,
		promhttp.HandlerFor(gatherers,
			promhttp.HandlerOpts{
				ErrorHandling: promhttp.ContinueOnError,
			}),
	)
}

// ServeMetrics serves /metrics of the images at paths until ctx is done.
func ServeMetrics(ctx context.Context, address string, paths []string, opts image.Options) error {
	config := net.ListenConfig{}
	listener, err := config.Listen(ctx, "tcp", address)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(paths, opts))
	server := &http.Server{Handler: mux}

	go func() {
		<-ctx.Done()
		server.Close()
	}()

	klog.V(2).Infof("Starting metrics exporter at %v", listener.Addr())
	if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
		klog.ErrorS(err, "unable to start metrics server")
		return err
	}
	return nil
}
