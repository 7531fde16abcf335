package profile_test

import (
	"errors"
	"testing"

	"github.com/okian/finesse/internal/domain/errs"
	"github.com/okian/finesse/internal/domain/model"
	"github.com/okian/finesse/internal/domain/profile"
	. "github.com/smartystreets/goconvey/convey"
)

func samples() []model.Profile {
	height, exp := 178, 8
	return []model.Profile{
		model.PlayerProfile{
			Base:     model.Base{ID: "player_1", Name: "John Smith", Email: "john@example.com", Country: "GB"},
			Position: "Striker", PositionCode: "ST", Age: 17, Height: &height,
			FavoriteClub: "mancity", Skills: []string{"Speed", "Finishing"},
		},
		model.ManagerProfile{
			Base:   model.Base{ID: "manager_1", Name: "Sarah Johnson", Country: "GB"},
			ClubID: "club_1", ClubName: "Manchester City", Role: "Youth Team Coach", Experience: &exp,
		},
		model.ClubProfile{
			Base:     model.Base{ID: "club_1", Name: "Manchester City FC", Country: "GB"},
			ClubName: "Manchester City FC", Founded: "1880", Location: "Manchester, UK",
		},
	}
}

func TestMergeKeepsVariant(t *testing.T) {
	Convey("Given a profile of every variant", t, func() {
		for _, current := range samples() {
			for _, tag := range model.UserTypes() {
				Convey("When "+current.Type().String()+" is patched with userType "+tag.String(), func() {
					patch := profile.Patch{
						UserType:     model.Ptr(tag),
						Name:         model.Ptr("Renamed"),
						Role:         model.Ptr("Head Coach"),
						PositionCode: model.Ptr("GK"),
						Founded:      model.Ptr("1900"),
					}
					merged, err := profile.Merge(current, patch)

					Convey("Then the variant and id are unchanged", func() {
						So(err, ShouldBeNil)
						So(merged.Type(), ShouldEqual, current.Type())
						So(merged.Common().ID, ShouldEqual, current.Common().ID)
						So(merged.Common().Name, ShouldEqual, "Renamed")
					})
				})
			}
		}
	})
}

func TestMergeFields(t *testing.T) {
	Convey("Given a player", t, func() {
		player := samples()[0].(model.PlayerProfile)

		Convey("When patched with player and foreign fields", func() {
			skills := []string{"Dribbling", "Dribbling"}
			merged, err := profile.Merge(player, profile.Patch{
				Age:      model.Ptr(18),
				Weight:   model.Ptr(70),
				Skills:   &skills,
				ClubName: model.Ptr("ignored"),
			})
			So(err, ShouldBeNil)
			got := merged.(model.PlayerProfile)

			Convey("Then player fields are applied", func() {
				So(got.Age, ShouldEqual, 18)
				So(*got.Weight, ShouldEqual, 70)
				So(got.Skills, ShouldResemble, []string{"Dribbling", "Dribbling"})
			})

			Convey("Then untouched fields survive", func() {
				So(got.PositionCode, ShouldEqual, "ST")
				So(*got.Height, ShouldEqual, 178)
				So(got.Email, ShouldEqual, "john@example.com")
			})

			Convey("Then the input is not aliased", func() {
				skills[0] = "Heading"
				*got.Height = 190
				So(got.Skills[0], ShouldEqual, "Dribbling")
				So(*player.Height, ShouldEqual, 178)
				So(player.Age, ShouldEqual, 17)
			})
		})

		Convey("When the patch is empty", func() {
			merged, err := profile.Merge(player, profile.Patch{})

			Convey("Then the result equals the input", func() {
				So(err, ShouldBeNil)
				So(merged, ShouldResemble, model.Profile(player))
			})
		})
	})

	Convey("Given a manager and a club", t, func() {
		manager := samples()[1]
		club := samples()[2]

		Convey("Then the shared clubName lands on both", func() {
			m, err := profile.Merge(manager, profile.Patch{ClubName: model.Ptr("Chelsea"), Experience: model.Ptr(9)})
			So(err, ShouldBeNil)
			So(m.(model.ManagerProfile).ClubName, ShouldEqual, "Chelsea")
			So(*m.(model.ManagerProfile).Experience, ShouldEqual, 9)

			c, err := profile.Merge(club, profile.Patch{ClubName: model.Ptr("Chelsea FC"), Website: model.Ptr("www.chelseafc.com")})
			So(err, ShouldBeNil)
			So(c.(model.ClubProfile).ClubName, ShouldEqual, "Chelsea FC")
			So(c.(model.ClubProfile).Website, ShouldEqual, "www.chelseafc.com")
		})

		Convey("Then completing onboarding flips the shared flag", func() {
			c, err := profile.Merge(club, profile.Patch{OnboardingComplete: model.Ptr(true)})
			So(err, ShouldBeNil)
			So(c.Common().OnboardingComplete, ShouldBeTrue)
		})
	})
}

type impostor struct{ model.PlayerProfile }

func TestMergeErrors(t *testing.T) {
	Convey("Merging into nothing fails with ErrNullProfile", t, func() {
		_, err := profile.Merge(nil, profile.Patch{Name: model.Ptr("x")})
		So(errors.Is(err, errs.ErrNullProfile), ShouldBeTrue)

		var typedNil *model.ClubProfile
		_, err = profile.Merge(typedNil, profile.Patch{})
		So(errors.Is(err, errs.ErrNullProfile), ShouldBeTrue)
	})

	Convey("Pointer variants merge like values", t, func() {
		club := samples()[2].(model.ClubProfile)
		merged, err := profile.Merge(&club, profile.Patch{Location: model.Ptr("Leeds")})
		So(err, ShouldBeNil)
		So(merged.(model.ClubProfile).Location, ShouldEqual, "Leeds")
		So(club.Location, ShouldEqual, "Manchester, UK")
	})

	Convey("An unrecognised implementation fails with ErrUnknownVariant", t, func() {
		_, err := profile.Merge(impostor{}, profile.Patch{})
		So(errors.Is(err, errs.ErrUnknownVariant), ShouldBeTrue)
	})
}
