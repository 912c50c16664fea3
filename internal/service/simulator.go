package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"sensor_dashboard/internal/logger"
)

// ----------- Simulation constants -----------
// The stand-in mimics the board: DHT11 temperature (sensor_1), DHT11
// humidity (sensor_2) and the MQ-2 gas sensor's analog level (sensor_3).
const (
	AmbientC        = 25.0
	AmbientHumidity = 55.0
	GasBaseline     = 300.0

	TempStepC    = 0.5  // max °C change per tick
	HumidityStep = 1.5  // max %RH change per tick
	GasStep      = 25.0 // max ADC counts change per tick

	MinTempC, MaxTempC = 0.0, 50.0 // DHT11 range
	MinGas, MaxGas     = 0.0, 1023.0

	// WarmupTicks is how many samples go out without sensor_3 while the MQ-2 heats up.
	WarmupTicks = 4
)

type simState struct {
	tempC    float64
	humidity float64
	gas      float64
	ticks    int
}

// SimulatorService feeds synthetic samples through Ingest and acknowledges
// actuator commands the way the board does after driving the servo.
type SimulatorService struct {
	readings Readings
	actuator Actuator
	log      *logger.Logger
	rng      *rand.Rand
	st       simState
}

func NewSimulatorService(readings Readings, actuator Actuator, log *logger.Logger) *SimulatorService {
	return &SimulatorService{
		readings: readings,
		actuator: actuator,
		log:      log,
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
		st:       simState{tempC: AmbientC, humidity: AmbientHumidity, gas: GasBaseline},
	}
}

// Run ticks at the given interval until ctx is canceled.
func (s *SimulatorService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.step(ctx)
		}
	}
}

func (s *SimulatorService) step(ctx context.Context) {
	res, err := s.readings.Ingest(ctx, s.next())
	if err != nil {
		s.log.Warnw("simulated_ingest_failed", "error", err)
		return
	}
	if res.Command != nil {
		s.log.Infow("simulated_command", "command", res.Command.Command, "reading_id", res.Reading.ID)
	}
	s.acknowledge(ctx)
}

// next advances the random walk and returns the sample for this tick.
func (s *SimulatorService) next() Sample {
	s.st.ticks++
	s.st.tempC = clamp(s.st.tempC+s.jitter(TempStepC), MinTempC, MaxTempC)
	s.st.humidity = clamp(s.st.humidity+s.jitter(HumidityStep), 0, 100)
	s.st.gas = clamp(s.st.gas+s.jitter(GasStep), MinGas, MaxGas)

	smp := Sample{Sensor1: round1(s.st.tempC), Sensor2: round1(s.st.humidity)}
	if s.st.ticks > WarmupTicks {
		gas := round1(s.st.gas)
		smp.Sensor3 = &gas
	}
	return smp
}

// acknowledge marks the latest command executed if the device has not yet done so.
func (s *SimulatorService) acknowledge(ctx context.Context) {
	latest, err := s.actuator.LatestCommand(ctx)
	if errors.Is(err, ErrNotFound) {
		return
	}
	if err != nil {
		s.log.Warnw("simulated_ack_failed", "error", err)
		return
	}
	if latest.Executed() {
		return
	}
	if _, err := s.actuator.MarkExecuted(ctx, latest.ID, time.Time{}); err != nil {
		s.log.Warnw("simulated_ack_failed", "command_id", latest.ID, "error", err)
	}
}

// jitter returns a value in [-step, step).
func (s *SimulatorService) jitter(step float64) float64 {
	return (s.rng.Float64()*2 - 1) * step
}

// helpers
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
