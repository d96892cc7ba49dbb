package types

import (
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/teris-io/shortid"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex inv_01HQ8Z4J3M6V9Q2X7C5B1N0R8T
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

var (
	sidGenerator *shortid.Shortid
	once         sync.Once
)

func initializeSID() {
	var err error
	sidGenerator, err = shortid.New(1, shortid.DefaultABC, 2342)
	if err != nil {
		panic("failed to initialize shortid generator: " + err.Error())
	}
}

// GenerateShortIDWithPrefix returns an upper case id of at most 12
// characters, e.g. RUN_XYZ12A8Q. Used to tag CLI batch runs in logs.
func GenerateShortIDWithPrefix(prefix string) string {
	once.Do(initializeSID)

	id, err := sidGenerator.Generate()
	if err != nil {
		return ""
	}
	id = strings.ReplaceAll(id, "-", "")

	availableLen := 12 - len(prefix)
	if availableLen <= 0 {
		return ""
	}
	if len(id) > availableLen {
		id = id[:availableLen]
	}
	return strings.ToUpper(prefix + id)
}

const (
	// Prefixes for all domains and entities

	UUID_PREFIX_INVOICE  = "inv"
	UUID_PREFIX_CLIENT   = "client"
	UUID_PREFIX_PROFILE  = "profile"
	UUID_PREFIX_SEQUENCE = "seq"
	UUID_PREFIX_LOGO     = "logo"

	SHORT_ID_PREFIX_RUN = "run_"
)
