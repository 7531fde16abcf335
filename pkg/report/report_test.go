package report

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestReportDisabled(t *testing.T) {
	Convey("Given no DSN", t, func() {
		So(Init("", "test"), ShouldBeNil)

		Convey("Then reporting stays off and every call is a no-op", func() {
			So(Enabled(), ShouldBeFalse)
			So(func() {
				Capture(context.Background(), errors.New("boom"), map[string]string{"op": "authenticate"})
				Capture(context.Background(), nil, nil)
			}, ShouldNotPanic)
			So(Flush(time.Millisecond), ShouldBeTrue)
		})
	})

	Convey("Given a malformed DSN", t, func() {
		err := Init("not-a-dsn", "test")

		Convey("Then Init fails and reporting stays off", func() {
			So(err, ShouldNotBeNil)
			So(Enabled(), ShouldBeFalse)
		})
	})
}
