package capture

import (
	"context"
	"path/filepath"
	"time"

	"booth-go/internal/booth"
)

// Gphoto2Device drives a tethered camera through the gphoto2 command line tool.
type Gphoto2Device struct {
	runner          CommandRunner
	binary          string
	model           string
	folder          string
	filenamePattern string
	timeout         time.Duration
	logger          booth.Logger
}

// Gphoto2Options configures a Gphoto2Device. Zero values fall back to defaults.
type Gphoto2Options struct {
	Binary          string
	Model           string
	Folder          string
	FilenamePattern string
	Timeout         time.Duration
}

// NewGphoto2Device creates a device that shells out through runner.
func NewGphoto2Device(runner CommandRunner, opts Gphoto2Options, logger booth.Logger) *Gphoto2Device {
	if runner == nil {
		runner = ExecRunner{}
	}
	if opts.Binary == "" {
		opts.Binary = "gphoto2"
	}
	if opts.FilenamePattern == "" {
		opts.FilenamePattern = "photo_%n.%C"
	}
	if logger == nil {
		logger = booth.NewNopLogger()
	}
	return &Gphoto2Device{
		runner:          runner,
		binary:          opts.Binary,
		model:           opts.Model,
		folder:          opts.Folder,
		filenamePattern: opts.FilenamePattern,
		timeout:         opts.Timeout,
		logger:          logger,
	}
}

// ImportAll downloads every file in the camera folder into dir, overwriting
// files of the same name.
func (d *Gphoto2Device) ImportAll(ctx context.Context, dir string) error {
	args := append(d.baseArgs(),
		"--get-all-files",
		"--filename", filepath.Join(dir, d.filenamePattern),
		"--force-overwrite",
	)
	return d.run(ctx, args)
}

// EraseAll deletes every file in the camera folder.
func (d *Gphoto2Device) EraseAll(ctx context.Context) error {
	return d.run(ctx, append(d.baseArgs(), "--delete-all-files"))
}

func (d *Gphoto2Device) baseArgs() []string {
	var args []string
	if d.model != "" {
		args = append(args, "--camera", d.model)
	}
	if d.folder != "" {
		args = append(args, "--folder", d.folder)
	}
	return args
}

func (d *Gphoto2Device) run(ctx context.Context, args []string) error {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	d.logger.Debug("running capture tool", "command", d.binary, "args", args)
	stdout, stderr, err := d.runner.Run(ctx, d.binary, args...)
	if err != nil {
		return &CommandError{
			Command: d.binary,
			Args:    args,
			Stdout:  string(stdout),
			Stderr:  string(stderr),
			Err:     err,
		}
	}
	return nil
}

// Compile-time check that Gphoto2Device implements booth.CaptureDevice interface
var _ booth.CaptureDevice = (*Gphoto2Device)(nil)
