package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/okian/mercato/internal/adapters/repository"
	"github.com/okian/mercato/internal/domain/model"
	"github.com/okian/mercato/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func records(players ...string) []model.ResolvedTransferRecord {
	out := make([]model.ResolvedTransferRecord, len(players))
	for i, p := range players {
		out[i].PlayerName = p
		out[i].Year = 2000 + i
	}
	return out
}

func TestMemoryStore(t *testing.T) {
	Convey("Given an empty store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()

		Convey("Then Current reports no data", func() {
			_, err := store.Current(ctx)
			So(errors.Is(err, model.ErrNoData), ShouldBeTrue)
		})

		Convey("Then empty datasets are refused", func() {
			So(errors.Is(store.Publish(ctx, nil), model.ErrNoData), ShouldBeTrue)
			So(errors.Is(store.Publish(ctx, repository.NewDataset("v", "csv", nil)), model.ErrNoData), ShouldBeTrue)
		})

		Convey("When a dataset is published", func() {
			ds := repository.NewDataset("v1", "csv", records("A", "B", "A"))
			So(store.Publish(ctx, ds), ShouldBeNil)

			Convey("Then readers see it", func() {
				got, err := store.Current(ctx)
				So(err, ShouldBeNil)
				So(got.Version, ShouldEqual, "v1")
				So(got.Len(), ShouldEqual, 3)
				So(got.Players(), ShouldEqual, 2)
				So(got.PublishedAt.IsZero(), ShouldBeFalse)
			})

			Convey("Then a player's records come back in ledger order", func() {
				got, err := ds.PlayerRecords("A")
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[0].Year, ShouldEqual, 2000)
				So(got[1].Year, ShouldEqual, 2002)
			})

			Convey("Then unknown players are not found", func() {
				_, err := ds.PlayerRecords("Z")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})

			Convey("When a new version replaces it under concurrent reads", func() {
				var wg sync.WaitGroup
				for i := 0; i < 8; i++ {
					wg.Add(1)
					go func() {
						defer wg.Done()
						for j := 0; j < 100; j++ {
							cur, err := store.Current(ctx)
							if err != nil || cur.Len() == 0 {
								panic("dataset disappeared")
							}
						}
					}()
				}
				So(store.Publish(ctx, repository.NewDataset("v2", "snapshot", records("C"))), ShouldBeNil)
				wg.Wait()

				Convey("Then the latest version wins", func() {
					got, _ := store.Current(ctx)
					So(got.Version, ShouldEqual, "v2")
					So(got.Source, ShouldEqual, "snapshot")
				})
			})
		})
	})
}
