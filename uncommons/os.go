package uncommons

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	constant "github.com/mystrive/lib-dbconn/uncommons/constants"
)

// ErrNotPointer is returned by SetConfigFromEnvVars when s is not a pointer to a struct.
var ErrNotPointer = errors.New("config must be a pointer to a struct")

// LocalEnvConfig reports whether a local .env file was loaded.
type LocalEnvConfig struct {
	Initialized bool
}

var (
	localEnvConfig     *LocalEnvConfig
	localEnvConfigOnce sync.Once
)

// GetenvOrDefault returns the trimmed value of key, or defaultValue when it is unset or blank.
func GetenvOrDefault(key string, defaultValue string) string {
	str := strings.TrimSpace(os.Getenv(key))
	if str == "" {
		return defaultValue
	}

	return str
}

// GetenvBoolOrDefault parses key with strconv.ParseBool, falling back to defaultValue.
func GetenvBoolOrDefault(key string, defaultValue bool) bool {
	str := strings.TrimSpace(os.Getenv(key))

	val, err := strconv.ParseBool(str)
	if err != nil {
		return defaultValue
	}

	return val
}

// GetenvIntOrDefault parses key as a base-10 int64, falling back to defaultValue.
func GetenvIntOrDefault(key string, defaultValue int64) int64 {
	str := strings.TrimSpace(os.Getenv(key))

	val, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return defaultValue
	}

	return val
}

// InitLocalEnvConfig prints the VERSION and ENV_NAME banner and, when
// ENV_NAME is "local", loads ./.env once per process. Variables already set
// in the environment are never overridden.
func InitLocalEnvConfig() *LocalEnvConfig {
	version := GetenvOrDefault(constant.EnvVersion, "NO-VERSION")
	envName := GetenvOrDefault(constant.EnvName, "local")

	fmt.Printf("VERSION: %s\n\n", version)
	fmt.Printf("ENVIRONMENT NAME: %s\n\n", envName)

	if envName == "local" {
		localEnvConfigOnce.Do(func() {
			if err := godotenv.Load(); err != nil {
				fmt.Println("Skipping .env file, using process environment:", err)

				localEnvConfig = &LocalEnvConfig{Initialized: false}

				return
			}

			fmt.Println("Local .env file loaded")

			localEnvConfig = &LocalEnvConfig{Initialized: true}
		})
	}

	return localEnvConfig
}

// LoadEnvFile loads an explicit dotenv file without overriding variables
// already present in the process environment.
func LoadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %q: %w", path, err)
	}

	return nil
}

// SetConfigFromEnvVars fills every `env:"NAME"` tagged field of the struct s
// points to. Supported kinds are string, bool and signed integers; unset
// variables leave the zero value.
func SetConfigFromEnvVars(s any) error {
	v := reflect.ValueOf(s)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return ErrNotPointer
	}

	e := v.Elem()
	t := e.Type()

	for i := 0; i < t.NumField(); i++ {
		tag, ok := t.Field(i).Tag.Lookup("env")
		if !ok || tag == "" {
			continue
		}

		field := e.Field(i)
		if !field.CanSet() {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(strings.TrimSpace(os.Getenv(tag)))
		case reflect.Bool:
			field.SetBool(GetenvBoolOrDefault(tag, false))
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			field.SetInt(GetenvIntOrDefault(tag, 0))
		default:
			return fmt.Errorf("unsupported kind %s for env field %q", field.Kind(), t.Field(i).Name)
		}
	}

	return nil
}
