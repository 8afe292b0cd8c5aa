// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"github.com/diffeo/go-restflux/resource"
	"github.com/diffeo/go-restflux/restdata"
)

// notFound wraps missing-record errors so they produce a 404.
func notFound(err error) error {
	if _, missing := err.(resource.ErrNoSuchRecord); missing {
		return restdata.ErrNotFound{Err: err}
	}
	return err
}

// CollectionGet lists a collection, or finds records in it if the
// request carried a query.
func (api *restAPI) CollectionGet(ctx *context) (interface{}, error) {
	var (
		records []resource.Record
		err     error
	)
	if ctx.Query != nil {
		records, err = api.Backend.Find(ctx.Collection, ctx.Query)
	} else {
		records, err = api.Backend.List(ctx.Collection)
	}
	if err != nil {
		return nil, err
	}
	result := make([]restdata.Record, len(records))
	for i, record := range records {
		result[i] = restdata.Record(record)
	}
	return result, nil
}

// CollectionPost creates a new record.
func (api *restAPI) CollectionPost(ctx *context, in map[string]interface{}) (interface{}, error) {
	record, err := api.Backend.Create(ctx.Collection, resource.Record(in))
	if err != nil {
		return nil, err
	}
	if record.ID() == "" {
		return nil, errMissingID
	}
	created := responseCreated{Body: restdata.Record(record)}
	err = buildURLs(api.Router, "collection", ctx.Collection, "id", record.ID()).
		URL(&created.Location, "record").
		Error
	return created, err
}

// RecordGet retrieves a single record.
func (api *restAPI) RecordGet(ctx *context) (interface{}, error) {
	record, err := api.Backend.Get(ctx.Collection, ctx.ID)
	if err != nil {
		return nil, notFound(err)
	}
	return restdata.Record(record), nil
}

// RecordPut updates a single record.
func (api *restAPI) RecordPut(ctx *context, in map[string]interface{}) (interface{}, error) {
	record, err := api.Backend.Update(ctx.Collection, ctx.ID, resource.Record(in))
	if err != nil {
		return nil, notFound(err)
	}
	return restdata.Record(record), nil
}

// RecordDelete deletes a single record, returning its final value.
func (api *restAPI) RecordDelete(ctx *context) (interface{}, error) {
	record, err := api.Backend.Delete(ctx.Collection, ctx.ID)
	if err != nil {
		return nil, notFound(err)
	}
	return restdata.Record(record), nil
}
