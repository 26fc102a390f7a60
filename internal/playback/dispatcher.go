package playback

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrPlayback общий признак ошибки воспроизведения
var ErrPlayback = errors.New("ошибка воспроизведения аудио")

// PlaybackError описывает сбой запуска или завершения плеера
type PlaybackError struct {
	Platform Platform
	Command  string
	Output   string
	Err      error
}

func (e *PlaybackError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("%v: %s: %v: %s", ErrPlayback, e.Command, e.Err, e.Output)
	}
	return fmt.Sprintf("%v: %s: %v", ErrPlayback, e.Command, e.Err)
}

func (e *PlaybackError) Unwrap() error {
	return e.Err
}

func (e *PlaybackError) Is(target error) bool {
	return target == ErrPlayback
}

// Runner запускает внешнюю команду и ждет ее завершения
type Runner interface {
	Run(ctx context.Context, cmd Command) (output []byte, err error)
}

// ExecRunner запускает команды через os/exec
type ExecRunner struct{}

// Run выполняет команду, окружение процесса дополняется cmd.Env
func (ExecRunner) Run(ctx context.Context, cmd Command) ([]byte, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	if len(cmd.Env) > 0 {
		// при дубликатах exec берет последнее значение
		c.Env = append(os.Environ(), cmd.Env...)
	}

	var out bytes.Buffer
	c.Stdout = &out
	c.Stderr = &out
	err := c.Run()
	return out.Bytes(), err
}

// Dispatcher воспроизводит аудио файлы системным плеером
type Dispatcher struct {
	logger   *zap.Logger
	platform Platform
	runner   Runner
	getenv   func(string) string
}

// NewDispatcher создает диспетчер для платформы
func NewDispatcher(logger *zap.Logger, platform Platform, runner Runner) *Dispatcher {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Dispatcher{
		logger:   logger,
		platform: platform,
		runner:   runner,
		getenv:   os.Getenv,
	}
}

// Platform возвращает платформу диспетчера
func (d *Dispatcher) Platform() Platform {
	return d.platform
}

// Play воспроизводит файл и блокируется до завершения плеера
func (d *Dispatcher) Play(ctx context.Context, path string) error {
	cmd, err := PlanCommand(d.platform, path, d.getenv)
	if err != nil {
		d.logger.Error("ошибка воспроизведения аудио", zap.Error(err))
		return err
	}

	d.logger.Info("🔊 воспроизводим аудио",
		zap.String("path", path),
		zap.String("platform", string(d.platform)),
		zap.String("command", cmd.Name),
		zap.Strings("env", cmd.Env))

	start := time.Now()
	output, err := d.runner.Run(ctx, cmd)
	if err != nil {
		perr := &PlaybackError{
			Platform: d.platform,
			Command:  cmd.Name,
			Output:   strings.TrimSpace(string(output)),
			Err:      err,
		}
		d.logger.Error("ошибка воспроизведения аудио", zap.Error(perr))
		return perr
	}

	d.logger.Debug("воспроизведение завершено", zap.Duration("duration", time.Since(start)))
	return nil
}
