package helper_test

import (
	"errors"
	"os/user"
	"testing"

	"github.com/agiledragon/gomonkey/v2"
	"github.com/stretchr/testify/assert"
	"golang.org/x/term"

	"github.com/Heprex/automation/cli/helper"
	"github.com/Heprex/automation/utils/log"
)

const logName = "helperTest.log"

func TestMain(m *testing.M) {
	log.MockInitLogging(logName)
	defer log.MockStopLogging(logName)

	m.Run()
}

func TestExamples(t *testing.T) {
	// arrange
	raw := `
nasdr get status
nasdr show app -a APP1
`

	// act
	normalized := helper.Examples(raw)

	// assert
	assert.Equal(t, "  nasdr get status\n  nasdr show app -a APP1", normalized)
}

func TestExamplesEmpty(t *testing.T) {
	// assert
	assert.Equal(t, "", helper.Examples(""))
}

func TestReadPassword(t *testing.T) {
	// arrange
	patches := gomonkey.ApplyFunc(term.ReadPassword, func(_ int) ([]byte, error) {
		return []byte(" secret \n"), nil
	})
	defer patches.Reset()

	// act
	password, err := helper.ReadPassword("Password: ")

	// assert
	assert.NoError(t, err)
	assert.Equal(t, "secret", password)
}

func TestReadPasswordError(t *testing.T) {
	// arrange
	cause := errors.New("not a terminal")
	patches := gomonkey.ApplyFunc(term.ReadPassword, func(_ int) ([]byte, error) {
		return nil, cause
	})
	defer patches.Reset()

	// act
	_, err := helper.ReadPassword("Password: ")

	// assert
	assert.ErrorIs(t, err, cause)
}

func TestCurrentUser(t *testing.T) {
	// arrange
	patches := gomonkey.ApplyFunc(user.Current, func() (*user.User, error) {
		return &user.User{Username: "operator1"}, nil
	})
	defer patches.Reset()

	// act
	name := helper.CurrentUser()

	// assert
	assert.Equal(t, "operator1", name)
}

func TestCurrentUserFallsBackToEnv(t *testing.T) {
	// arrange
	patches := gomonkey.ApplyFunc(user.Current, func() (*user.User, error) {
		return nil, errors.New("unsupported")
	})
	defer patches.Reset()
	t.Setenv("USER", "envuser")

	// act
	name := helper.CurrentUser()

	// assert
	assert.Equal(t, "envuser", name)
}
