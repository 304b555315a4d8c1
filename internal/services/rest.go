package services

import (
	"context"
	"errors"
	"net/http"

	"starjar/internal/models"
	"starjar/internal/pkg/restapi"
)

// Envelope decoding shared by the remote variants. Transport failures and
// non-2xx statuses surface as errors here, once, with no retry; a 2xx body
// whose envelope carries an error string is equally an error.

func restList[T any](ctx context.Context, api *restapi.Client, path string) ([]T, error) {
	resp, err := api.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var env models.ListEnvelope[T]
	if err := resp.JSON(&env); err != nil {
		return nil, err
	}
	if env.Error != nil {
		return nil, errors.New(*env.Error)
	}
	if env.Data == nil {
		return []T{}, nil
	}

	return env.Data, nil
}

func restOne[T any](ctx context.Context, api *restapi.Client, method string, path string, body any) (*T, error) {
	resp, err := api.Do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var env models.Envelope[T]
	if err := resp.JSON(&env); err != nil {
		return nil, err
	}
	if env.Error != nil {
		return nil, errors.New(*env.Error)
	}

	return env.Data, nil
}

func restNoContent(ctx context.Context, api *restapi.Client, method string, path string, body any) error {
	resp, err := api.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}

	var env models.Envelope[struct{}]
	if err := resp.JSON(&env); err != nil {
		// some endpoints reply with an empty body on success
		return nil
	}
	if env.Error != nil {
		return errors.New(*env.Error)
	}

	return nil
}
