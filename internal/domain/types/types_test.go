package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/okian/draftboard/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEntry(t *testing.T) {
	Convey("Given an Entry struct", t, func() {
		Convey("When creating an entry with zero values", func() {
			entry := types.Entry{}

			Convey("Then it should have default values", func() {
				So(entry.Rank, ShouldEqual, 0)
				So(entry.EntityID, ShouldEqual, 0)
				So(entry.Score, ShouldEqual, 0.0)
			})
		})

		Convey("When encoding to JSON", func() {
			b, err := json.Marshal(types.Entry{Rank: 1, EntityID: 223340, Name: "Salah", Role: "MID", Season: "2023-24", Score: 7.2})
			So(err, ShouldBeNil)

			Convey("Then it should use the API field names", func() {
				So(string(b), ShouldEqual, `{"rank":1,"id":223340,"name":"Salah","position":"MID","season":"2023-24","score":7.2}`)
			})
		})
	})
}
