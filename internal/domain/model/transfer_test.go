package model_test

import (
	"testing"

	model "github.com/okian/mercato/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/smartystreets/goconvey/convey"
)

func TestParseDirection(t *testing.T) {
	convey.Convey("Given raw movement values", t, func() {
		convey.Convey("When they are valid in any case", func() {
			in, okIn := model.ParseDirection(" IN ")
			out, okOut := model.ParseDirection("out")

			convey.Convey("Then they normalize", func() {
				convey.So(okIn, convey.ShouldBeTrue)
				convey.So(in, convey.ShouldEqual, model.DirectionIn)
				convey.So(okOut, convey.ShouldBeTrue)
				convey.So(out, convey.ShouldEqual, model.DirectionOut)
			})
		})

		convey.Convey("When the value is unknown", func() {
			_, ok := model.ParseDirection("loan")

			convey.Convey("Then it is rejected", func() {
				convey.So(ok, convey.ShouldBeFalse)
			})
		})
	})
}

func TestTransferRecordFees(t *testing.T) {
	convey.Convey("Given transfer records with various fee shapes", t, func() {
		paid := model.TransferRecord{
			FeeText: "€12.50m",
			Fee:     decimal.NewNullDecimal(decimal.RequireFromString("12.5")),
		}
		free := model.TransferRecord{FeeText: "Free Transfer"}
		loan := model.TransferRecord{FeeText: "End of loan Jun 30, 2019"}
		junk := model.TransferRecord{FeeText: "?"}

		convey.Convey("Then FeeValue treats null as zero", func() {
			convey.So(paid.FeeValue().String(), convey.ShouldEqual, "12.5")
			convey.So(free.FeeValue().IsZero(), convey.ShouldBeTrue)
			convey.So(junk.FeeValue().IsZero(), convey.ShouldBeTrue)
		})

		convey.Convey("Then the categorical flags match case-insensitively", func() {
			convey.So(free.IsFree(), convey.ShouldBeTrue)
			convey.So(free.IsLoan(), convey.ShouldBeFalse)
			convey.So(loan.IsLoan(), convey.ShouldBeTrue)
			convey.So(junk.IsFree(), convey.ShouldBeFalse)
			convey.So(junk.IsLoan(), convey.ShouldBeFalse)
		})
	})
}

func TestSeasonStartYear(t *testing.T) {
	convey.Convey("Given season labels", t, func() {
		y, ok := model.SeasonStartYear("2019/2020")
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(y, convey.ShouldEqual, 2019)

		_, ok = model.SeasonStartYear("19/20")
		convey.So(ok, convey.ShouldBeFalse)

		_, ok = model.SeasonStartYear("abcd/efgh")
		convey.So(ok, convey.ShouldBeFalse)
	})
}

func TestResolvedTransferRecord(t *testing.T) {
	convey.Convey("Given resolved records", t, func() {
		full := model.ResolvedTransferRecord{CounterpartyResolved: "Ajax", CounterpartyLeague: "Eredivisie"}
		clubOnly := model.ResolvedTransferRecord{CounterpartyResolved: "Ajax"}

		convey.So(full.HasResolvedCounterparty(), convey.ShouldBeTrue)
		convey.So(clubOnly.HasResolvedCounterparty(), convey.ShouldBeFalse)
	})
}
