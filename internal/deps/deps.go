// Package deps reports whether the external tools and model files clipscribe
// shells out to are present.
package deps

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Requirement defines an external dependency clipscribe relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Resolved    string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
// Commands containing a path separator are resolved relative to the working
// directory, like exec.LookPath does.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Resolved = resolved
		status.Available = true
		results = append(results, status)
	}
	return results
}

// CheckFile reports whether path names a readable, non-empty regular file.
func CheckFile(name, path, description string) Status {
	path = strings.TrimSpace(path)
	status := Status{
		Name:        name,
		Command:     path,
		Description: strings.TrimSpace(description),
	}
	if path == "" {
		status.Detail = "path not configured"
		return status
	}
	info, err := os.Stat(path)
	switch {
	case err != nil && os.IsNotExist(err):
		status.Detail = fmt.Sprintf("%s does not exist", path)
	case err != nil:
		status.Detail = fmt.Sprintf("stat %s: %v", path, err)
	case info.IsDir():
		status.Detail = fmt.Sprintf("%s is a directory", path)
	case info.Size() == 0:
		status.Detail = fmt.Sprintf("%s is empty", path)
	default:
		file, openErr := os.Open(path)
		if openErr != nil {
			status.Detail = fmt.Sprintf("%s is not readable: %v", path, openErr)
			return status
		}
		_ = file.Close()
		status.Resolved = path
		status.Available = true
	}
	return status
}

// Missing returns the required dependencies that are unavailable.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}
