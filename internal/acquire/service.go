package acquire

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/srf-tools/microphonics/internal/analysis"
	"github.com/srf-tools/microphonics/internal/config"
	"github.com/srf-tools/microphonics/internal/model"
	"github.com/srf-tools/microphonics/internal/platform"
)

// Acquisition script constants
const (
	// BufferSamples is the length of one resonance chassis waveform buffer
	BufferSamples = 16384

	ChannelDetuning = "DF"
	CAProtocol      = "ca://"
	FileTimeLayout  = "20060102_150405"
	TaskIDPrefix    = "acq-"
)

// Monitoring intervals
const (
	ProgressInterval = 500 * time.Millisecond
	StopPollInterval = 100 * time.Millisecond
	KillWaitDelay    = 2 * time.Second

	// progress stays below 1.0 until the script exits
	MaxRunningProgress = 0.99
)

var (
	// ErrRackBusy is returned when the rack already has an active acquisition
	ErrRackBusy = errors.New("rack already has an active acquisition")

	// ErrNoCavities is returned for an empty selection
	ErrNoCavities = errors.New("no cavities selected")
)

// Options are the per-run acquisition parameters.
type Options struct {
	Buffers    int
	Decimation int
}

// Service runs acquisition tasks. Tasks handed out by its methods and the
// update callback are copies; the service keeps the only live instance.
type Service struct {
	tasks      map[string]*model.AcquisitionTask
	done       map[string]chan struct{}
	tasksMutex sync.RWMutex
	onUpdate   func(*model.AcquisitionTask) // callback for UI updates

	interpreter string
	script      string
	dataDir     string
	channel     string
	verbose     bool
	now         func() time.Time
}

// NewService creates a new acquisition service from the acquisition config
func NewService(cfg config.AcquisitionConfig) *Service {
	channel := cfg.Channel
	if channel == "" {
		channel = ChannelDetuning
	}
	return &Service{
		tasks:       make(map[string]*model.AcquisitionTask),
		done:        make(map[string]chan struct{}),
		interpreter: cfg.Interpreter,
		script:      cfg.Script,
		dataDir:     cfg.DataDir,
		channel:     channel,
		now:         time.Now,
	}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.AcquisitionTask)) {
	s.tasksMutex.Lock()
	s.onUpdate = callback
	s.tasksMutex.Unlock()
}

// SetVerbose echoes script output to the log
func (s *Service) SetVerbose(verbose bool) {
	s.tasksMutex.Lock()
	s.verbose = verbose
	s.tasksMutex.Unlock()
}

// DataDir returns the directory data files are written to
func (s *Service) DataDir() string {
	return s.dataDir
}

// StartAcquisition validates the selection and launches the script in the background
func (s *Service) StartAcquisition(sel model.RackSelection, opts Options) (*model.AcquisitionTask, error) {
	if len(sel.Cavities) == 0 {
		return nil, ErrNoCavities
	}
	for _, cav := range sel.Cavities {
		rack, err := model.RackForCavity(cav)
		if err != nil {
			return nil, err
		}
		if rack != sel.Rack {
			return nil, fmt.Errorf("cavity %d is not served by rack %s", cav, sel.Rack)
		}
	}
	if opts.Buffers < 1 {
		opts.Buffers = config.DefaultBuffers
	}
	if opts.Decimation < 1 {
		opts.Decimation = config.DefaultDecimation
	}

	if err := platform.CreateDirectoryIfNotExists(s.dataDir); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cavities := append([]int(nil), sel.Cavities...)
	sort.Ints(cavities)

	s.tasksMutex.Lock()
	for _, task := range s.tasks {
		if task.Cryomodule == sel.Cryomodule && task.Rack == sel.Rack && !task.Status.IsFinished() {
			s.tasksMutex.Unlock()
			return nil, fmt.Errorf("%w: %s rack %s", ErrRackBusy, sel.Cryomodule, sel.Rack)
		}
	}

	task := &model.AcquisitionTask{
		ID:         generateTaskID(),
		Cryomodule: sel.Cryomodule,
		Rack:       sel.Rack,
		Cavities:   cavities,
		Buffers:    opts.Buffers,
		Decimation: opts.Decimation,
		Status:     model.TaskStatusPending,
		ETASec:     -1,
		StartedAt:  s.now(),
	}
	task.OutputPath = filepath.Join(s.dataDir, generateFileName(task))

	s.tasks[task.ID] = task
	s.done[task.ID] = make(chan struct{})
	snap := snapshot(task)
	s.tasksMutex.Unlock()

	log.Printf("Acquisition %s queued: %s -> %s", task.ID, task.Selection(), task.OutputPath)
	go s.startAcquisition(task)

	return snap, nil
}

// StopAcquisition stops a running acquisition task
func (s *Service) StopAcquisition(taskID string) error {
	s.tasksMutex.Lock()
	task, exists := s.tasks[taskID]
	if !exists {
		s.tasksMutex.Unlock()
		return fmt.Errorf("acquisition task not found: %s", taskID)
	}
	if task.Status.IsFinished() || task.Status == model.TaskStatusStopping {
		status := task.Status
		s.tasksMutex.Unlock()
		return fmt.Errorf("acquisition task is not active: %s", status)
	}

	// The actual stopping will be handled in the task goroutine
	task.Status = model.TaskStatusStopping
	s.tasksMutex.Unlock()

	s.notifyUpdate(task)
	return nil
}

// GetTask returns an acquisition task by ID
func (s *Service) GetTask(taskID string) (*model.AcquisitionTask, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	task, exists := s.tasks[taskID]
	if !exists {
		return nil, false
	}
	return snapshot(task), true
}

// GetAllTasks returns all tasks ordered by start time
func (s *Service) GetAllTasks() []*model.AcquisitionTask {
	s.tasksMutex.RLock()
	tasks := make([]*model.AcquisitionTask, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, snapshot(task))
	}
	s.tasksMutex.RUnlock()

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].StartedAt.Before(tasks[j].StartedAt)
	})
	return tasks
}

// Wait blocks until the task finishes or ctx is done
func (s *Service) Wait(ctx context.Context, taskID string) (*model.AcquisitionTask, error) {
	s.tasksMutex.RLock()
	task, exists := s.tasks[taskID]
	done := s.done[taskID]
	s.tasksMutex.RUnlock()
	if !exists {
		return nil, fmt.Errorf("acquisition task not found: %s", taskID)
	}

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	return snapshot(task), err
}

// BuildArgs builds the interpreter arguments for the acquisition script
func (s *Service) BuildArgs(task *model.AcquisitionTask) []string {
	args := []string{
		s.script,
		"-D", filepath.Dir(task.OutputPath), // output directory
		"-a", CAProtocol + task.Cryomodule.ResonancePrefix(task.Rack), // chassis PV prefix
		"-wsp", strconv.Itoa(task.Decimation), // waveform decimation
		"-acav", // cavities follow
	}
	for _, cav := range task.Cavities {
		args = append(args, strconv.Itoa(cav))
	}
	return append(args,
		"-ch", s.channel, // detuning channel
		"-c", strconv.Itoa(task.Buffers), // buffer count
		"-F", filepath.Base(task.OutputPath), // output file name
	)
}

// ExpectedDuration estimates how long the script needs to collect all buffers
func ExpectedDuration(buffers, decimation int) time.Duration {
	seconds := analysis.SampleSpacing(decimation) * BufferSamples * float64(buffers)
	return time.Duration(seconds * float64(time.Second))
}

// startAcquisition performs the actual acquisition
func (s *Service) startAcquisition(task *model.AcquisitionTask) {
	defer s.finish(task)

	s.tasksMutex.Lock()
	if task.Status == model.TaskStatusStopping {
		task.Status = model.TaskStatusStopped
		task.FinishedAt = s.now()
		s.tasksMutex.Unlock()
		return
	}
	task.Status = model.TaskStatusStarting
	verbose := s.verbose
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Monitor for stop requests
	go func() {
		for {
			s.tasksMutex.RLock()
			status := task.Status
			s.tasksMutex.RUnlock()

			if status == model.TaskStatusStopping {
				cancel()
				return
			}
			if status.IsFinished() || ctx.Err() != nil {
				return
			}
			time.Sleep(StopPollInterval)
		}
	}()

	cmd := exec.CommandContext(ctx, s.interpreter, s.BuildArgs(task)...)
	cmd.WaitDelay = KillWaitDelay

	stdoutR, stdoutW := io.Pipe()
	stderrR, stderrW := io.Pipe()
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW

	var readers sync.WaitGroup
	var lastErrLine string
	readers.Add(2)
	go func() {
		defer readers.Done()
		scanLines(stdoutR, func(line string) {
			if verbose {
				log.Printf("Acquisition %s: %s", task.ID, line)
			}
		})
	}()
	go func() {
		defer readers.Done()
		scanLines(stderrR, func(line string) {
			lastErrLine = line
			if verbose {
				log.Printf("Acquisition %s stderr: %s", task.ID, line)
			}
		})
	}()

	if err := cmd.Start(); err != nil {
		stdoutW.Close()
		stderrW.Close()
		readers.Wait()
		s.setTaskError(task, fmt.Errorf("failed to start acquisition script: %w", err))
		return
	}

	s.tasksMutex.Lock()
	if task.Status != model.TaskStatusStopping {
		task.Status = model.TaskStatusAcquiring
	}
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)

	progressDone := make(chan struct{})
	monitorDone := make(chan struct{})
	go func() {
		defer close(monitorDone)
		s.monitorProgress(task, progressDone)
	}()

	err := cmd.Wait()
	close(progressDone)
	// no progress update may follow the final state
	<-monitorDone
	stdoutW.Close()
	stderrW.Close()
	readers.Wait()

	s.tasksMutex.Lock()
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		task.Status = model.TaskStatusStopped
		os.Remove(task.OutputPath)
	case err != nil:
		task.Status = model.TaskStatusError
		task.LastError = scriptError(err, lastErrLine)
		os.Remove(task.OutputPath)
	default:
		if _, statErr := os.Stat(task.OutputPath); statErr != nil {
			task.Status = model.TaskStatusError
			task.LastError = fmt.Sprintf("script finished without writing %s", filepath.Base(task.OutputPath))
		} else {
			task.Status = model.TaskStatusCompleted
			task.Progress = 1.0
			task.Percent = 100
			task.ETASec = 0
		}
	}
	task.FinishedAt = s.now()
	status, lastError := task.Status, task.LastError
	s.tasksMutex.Unlock()

	if lastError != "" {
		log.Printf("Acquisition %s %s: %s", task.ID, status, lastError)
	} else {
		log.Printf("Acquisition %s %s", task.ID, status)
	}
}

// monitorProgress estimates progress from elapsed time until done is closed
func (s *Service) monitorProgress(task *model.AcquisitionTask, done <-chan struct{}) {
	expected := ExpectedDuration(task.Buffers, task.Decimation)
	started := time.Now()
	ticker := time.NewTicker(ProgressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
		}

		elapsed := time.Since(started)
		progress := MaxRunningProgress
		if expected > 0 {
			progress = min(float64(elapsed)/float64(expected), MaxRunningProgress)
		}
		remaining := int((expected - elapsed).Seconds())

		s.tasksMutex.Lock()
		if task.Status != model.TaskStatusAcquiring {
			s.tasksMutex.Unlock()
			continue
		}
		task.Progress = progress
		task.Percent = int(progress * 100)
		task.ETASec = max(remaining, -1)
		s.tasksMutex.Unlock()

		s.notifyUpdate(task)
	}
}

// finish publishes the final state and releases waiters
func (s *Service) finish(task *model.AcquisitionTask) {
	s.notifyUpdate(task)

	s.tasksMutex.RLock()
	done := s.done[task.ID]
	s.tasksMutex.RUnlock()
	// the channel stays in the map closed, so later waiters return at once
	close(done)
}

// setTaskError sets an error state for a task
func (s *Service) setTaskError(task *model.AcquisitionTask, err error) {
	s.tasksMutex.Lock()
	task.Status = model.TaskStatusError
	task.LastError = err.Error()
	task.FinishedAt = s.now()
	s.tasksMutex.Unlock()

	log.Printf("Acquisition %s failed: %v", task.ID, err)
}

// notifyUpdate calls the update callback, if set, with a copy of task
func (s *Service) notifyUpdate(task *model.AcquisitionTask) {
	s.tasksMutex.RLock()
	callback := s.onUpdate
	snap := snapshot(task)
	s.tasksMutex.RUnlock()

	if callback != nil {
		callback(snap)
	}
}

// snapshot copies task; the caller holds tasksMutex
func snapshot(task *model.AcquisitionTask) *model.AcquisitionTask {
	snap := *task
	snap.Cavities = slices.Clone(task.Cavities)
	return &snap
}

// scanLines calls fn for every non-empty line read from r
func scanLines(r io.Reader, fn func(string)) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			fn(line)
		}
	}
	// drain so the writer never blocks after a scanner error
	io.Copy(io.Discard, r)
}

// scriptError prefers the script's own last stderr line over the exit status
func scriptError(err error, lastLine string) string {
	if lastLine == "" {
		return err.Error()
	}
	return fmt.Sprintf("%v: %s", err, lastLine)
}

// generateFileName names the data file after the selection and start time
func generateFileName(task *model.AcquisitionTask) string {
	var cavities strings.Builder
	for _, cav := range task.Cavities {
		cavities.WriteString(strconv.Itoa(cav))
	}
	return fmt.Sprintf("%sCM%s_cav%s_c%d_%s",
		platform.DataFilePrefix, task.Cryomodule.Name, cavities.String(), task.Buffers,
		task.StartedAt.Format(FileTimeLayout))
}

// generateTaskID generates a unique task ID using UUID v7 for time ordering
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
