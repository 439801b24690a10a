// Package errors provides examples of structured error handling in the tap.
package errors_test

import (
	"fmt"
	"io"

	"github.com/ajitpratap0/tap-netsuite/pkg/errors"
)

// Example demonstrates basic error creation and details.
func Example() {
	err := errors.New(errors.ErrorTypeLookup, "unknown stream VendorBilz").
		WithDetail("stream", "VendorBilz")

	fmt.Println(err.Error())

	// Output:
	// lookup: unknown stream VendorBilz
}

// ExampleWrap shows how a collaborator failure is wrapped without losing its cause.
func ExampleWrap() {
	err := errors.Wrap(io.ErrUnexpectedEOF, errors.ErrorTypeRemote, "search page failed").
		WithDetail("stream", "Invoice")

	if errors.IsType(err, errors.ErrorTypeRemote) {
		fmt.Println("remote failure")
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		fmt.Println("cause preserved")
	}

	// Output:
	// remote failure
	// cause preserved
}

// ExampleIsRetryable demonstrates the retry classification.
func ExampleIsRetryable() {
	rateErr := errors.New(errors.ErrorTypeRateLimit, "429 from suiteql")
	valErr := errors.New(errors.ErrorTypeValidation, "missing external id")

	fmt.Println(errors.IsRetryable(rateErr))
	fmt.Println(errors.IsRetryable(valErr))

	// Output:
	// true
	// false
}
