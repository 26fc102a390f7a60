package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics содержит все метрики приложения
type Metrics struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	// Счетчики
	speechRequests *prometheus.CounterVec

	// Гистограммы
	synthesisDuration *prometheus.HistogramVec
	playbackDuration  *prometheus.HistogramVec
	audioBytes        prometheus.Histogram

	// Gauge метрики
	inFlight prometheus.Gauge
}

// New создает новый экземпляр метрик со своим реестром
func New(logger *zap.Logger) *Metrics {
	m := &Metrics{
		logger:   logger,
		registry: prometheus.NewRegistry(),

		speechRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "speech_requests_total",
				Help: "Общее количество вызовов speak_response",
			},
			[]string{"emotion", "status"}, // status: success, synthesis_failed, file_failed, playback_failed
		),

		synthesisDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "synthesis_duration_seconds",
				Help:    "Время ответа сервиса синтеза в секундах",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60, 120},
			},
			[]string{"contract"},
		),

		playbackDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "playback_duration_seconds",
				Help:    "Длительность воспроизведения в секундах",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
			},
			[]string{"platform"},
		),

		audioBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "synthesized_audio_bytes",
				Help:    "Размер синтезированного аудио в байтах",
				Buckets: prometheus.ExponentialBuckets(16*1024, 2, 10),
			},
		),

		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "speech_in_flight",
				Help: "Количество выполняющихся вызовов speak_response",
			},
		),
	}

	// Регистрируем все метрики
	m.registry.MustRegister(
		m.speechRequests,
		m.synthesisDuration,
		m.playbackDuration,
		m.audioBytes,
		m.inFlight,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// RecordSpeech записывает итог вызова
func (m *Metrics) RecordSpeech(emotion, status string) {
	m.speechRequests.WithLabelValues(emotion, status).Inc()
	m.logger.Debug("метрика увеличена",
		zap.String("metric", "speech_requests_total"),
		zap.String("emotion", emotion),
		zap.String("status", status))
}

// RecordSynthesis записывает время синтеза и размер аудио
func (m *Metrics) RecordSynthesis(contract string, seconds float64, size int) {
	m.synthesisDuration.WithLabelValues(contract).Observe(seconds)
	if size > 0 {
		m.audioBytes.Observe(float64(size))
	}
}

// RecordPlayback записывает длительность воспроизведения
func (m *Metrics) RecordPlayback(platform string, seconds float64) {
	m.playbackDuration.WithLabelValues(platform).Observe(seconds)
}

// Begin отмечает начало вызова и возвращает функцию завершения
func (m *Metrics) Begin() func() {
	m.inFlight.Inc()
	return m.inFlight.Dec
}

// Registry возвращает реестр метрик
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler возвращает HTTP handler для метрик
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
