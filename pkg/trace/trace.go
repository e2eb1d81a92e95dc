package trace

import (
	"time"

	"github.com/spf13/viper"
	"github.com/uber/jaeger-client-go"
	tracer_config "github.com/uber/jaeger-client-go/config"
	"github.com/voxelfit/batchfit/pkg/env"
	"go.uber.org/zap"
)

// TraceInit installs the jaeger global tracer. Without it the opentracing
// spans of the batch runner go to the default noop tracer.
func TraceInit() {
	cfg := &tracer_config.Configuration{}
	cfg.Sampler = &tracer_config.SamplerConfig{
		Type:  jaeger.SamplerTypeConst,
		Param: 1.0,
	}
	zap.S().Infow("use jaeger agent host and port", "HostAndPort", viper.GetString(env.TraceAgentHostPort))
	cfg.Reporter = &tracer_config.ReporterConfig{
		QueueSize:           100,
		BufferFlushInterval: 1 * time.Millisecond,
		LogSpans:            false,
		LocalAgentHostPort:  viper.GetString(env.TraceAgentHostPort),
	}

	_, err := cfg.InitGlobalTracer("batchfit") // closer ignored, the tracer lives for the whole process
	if err != nil {
		panic(err)
	}
}
