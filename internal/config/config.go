package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Backend string

const (
	BackendMemory Backend = "memory"
	BackendSQL    Backend = "sql"
)

type Config struct {
	StudentsFile    string
	AssignmentsFile string
	SubmissionsDir  string

	Backend  Backend
	DBDriver string // sqlite|postgres, used by the sql backend
	DBDSN    string

	ChartDir string
	Verbose  bool // log the loaded roster at startup
}

// LoadDotEnv reads .env from the working directory when one exists.
func LoadDotEnv() {
	if _, err := os.Stat(".env"); err != nil {
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Printf("ignoring .env: %v", err)
	}
}

func FromEnv() Config {
	backend := Backend(strings.ToLower(os.Getenv("REPORT_BACKEND")))
	if backend == "" {
		backend = BackendMemory
	}
	return Config{
		StudentsFile:    envOr("STUDENTS_FILE", "data/students.txt"),
		AssignmentsFile: envOr("ASSIGNMENTS_FILE", "data/assignments.txt"),
		SubmissionsDir:  envOr("SUBMISSIONS_DIR", "data/submissions"),
		Backend:         backend,
		DBDriver:        envOr("DB_DRIVER", "sqlite"),
		DBDSN:           envOr("DB_DSN", ""),
		ChartDir:        envOr("CHART_DIR", "./charts"),
		Verbose:         envBool("VERBOSE", false),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
