package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/okian/finesse/internal/domain/errs"
	. "github.com/smartystreets/goconvey/convey"
)

func TestUserType(t *testing.T) {
	Convey("ParseUserType", t, func() {
		Convey("accepts known names in any case", func() {
			ut, err := ParseUserType(" Manager ")
			So(err, ShouldBeNil)
			So(ut, ShouldEqual, UserTypeManager)
		})

		Convey("rejects anything else as a validation error", func() {
			_, err := ParseUserType("coach")
			So(errors.Is(err, errs.ErrValidation), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "coach")
		})
	})

	Convey("Every listed user type is valid", t, func() {
		for _, ut := range UserTypes() {
			So(ut.Valid(), ShouldBeTrue)
		}
		So(UserType("").Valid(), ShouldBeFalse)
		So(SocialProvider("apple").Valid(), ShouldBeTrue)
		So(SocialProvider("twitter").Valid(), ShouldBeFalse)
	})
}

func TestProfileJSON(t *testing.T) {
	Convey("Given one profile of each variant", t, func() {
		height := 178
		profiles := []Profile{
			PlayerProfile{
				Base:     Base{ID: "player_1", Name: "John Smith", Country: "GB"},
				Position: "Striker", PositionCode: "ST", Age: 17, Height: &height,
				Skills: []string{"Speed", "Speed"},
			},
			ManagerProfile{Base: Base{ID: "manager_1", Name: "Sarah Johnson"}, Role: "Youth Team Coach"},
			ClubProfile{Base: Base{ID: "club_1"}, ClubName: "Manchester City FC", Founded: "1880"},
		}

		for _, p := range profiles {
			Convey("When "+p.Type().String()+" is encoded", func() {
				data, err := json.Marshal(p)
				So(err, ShouldBeNil)

				Convey("Then the document carries its tag at the top level", func() {
					var flat map[string]any
					So(json.Unmarshal(data, &flat), ShouldBeNil)
					So(flat["userType"], ShouldEqual, p.Type().String())
					So(flat["id"], ShouldEqual, p.Common().ID)
				})

				Convey("Then decoding restores the same variant and value", func() {
					back, err := UnmarshalProfile(data)
					So(err, ShouldBeNil)
					So(back.Type(), ShouldEqual, p.Type())
					So(back, ShouldResemble, p)
				})
			})
		}
	})

	Convey("Given a document with an unknown tag", t, func() {
		_, err := UnmarshalProfile([]byte(`{"userType":"scout","id":"x"}`))

		Convey("Then decoding fails with ErrUnknownVariant", func() {
			So(errors.Is(err, errs.ErrUnknownVariant), ShouldBeTrue)
		})
	})

	Convey("Given a nullable profile field", t, func() {
		type snapshot struct {
			Profile ProfileJSON `json:"profile"`
		}

		Convey("When it is empty it encodes as null and decodes back to nil", func() {
			data, err := json.Marshal(snapshot{})
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, `{"profile":null}`)

			var back snapshot
			So(json.Unmarshal(data, &back), ShouldBeNil)
			So(back.Profile.Value, ShouldBeNil)
		})

		Convey("When it holds a club it round-trips as a club", func() {
			in := snapshot{Profile: ProfileJSON{Value: ClubProfile{Base: Base{ID: "club_9"}, ClubName: "Ajax"}}}
			data, err := json.Marshal(in)
			So(err, ShouldBeNil)

			var back snapshot
			So(json.Unmarshal(data, &back), ShouldBeNil)
			So(back.Profile.Value, ShouldResemble, in.Profile.Value)
		})
	})
}
