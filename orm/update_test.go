package orm

import (
	"errors"
	"testing"

	"github.com/startdusk/entityoh/orm/internal/errs"
	"github.com/startdusk/entityoh/orm/model"
	"github.com/stretchr/testify/assert"
)

func TestBuilder_Update(t *testing.T) {
	cases := []struct {
		name       string
		m          *model.Model
		wantSQL    string
		wantParams []string
		wantErr    error
	}{
		{
			name:       "user",
			m:          userModel(t),
			wantSQL:    "UPDATE User SET name = @name,email = @email WHERE id = @id",
			wantParams: []string{"@name", "@email", "@id"},
		},
		{
			name:       "composite key",
			m:          compositeModel(t),
			wantSQL:    "UPDATE order_line SET qty = @qty,price = @price WHERE order_id = @order_id AND line_no = @line_no",
			wantParams: []string{"@qty", "@price", "@order_id", "@line_no"},
		},
		{
			name: "identity but not primary is not updated",
			m: mustModel(t, "ticket",
				&model.Field{ColName: "code", Primary: true},
				&model.Field{ColName: "seq", Identity: true},
				&model.Field{ColName: "title"},
			),
			wantSQL:    "UPDATE ticket SET title = @title WHERE code = @code",
			wantParams: []string{"@title", "@code"},
		},
		{
			name:    "no primary field",
			m:       noPrimaryModel(t),
			wantErr: errs.NewErrNoPrimaryField("audit_log", "UPDATE"),
		},
		{
			name: "nothing to update",
			m: mustModel(t, "tag_link",
				&model.Field{ColName: "tag_id", Primary: true},
				&model.Field{ColName: "post_id", Primary: true},
			),
			wantErr: errs.NewErrNoUpdatableField("tag_link"),
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cmd, err := NewBuilder(DialectSQLServer).Update(c.m)
			assert.Equal(t, c.wantErr, err)
			if err != nil {
				assert.True(t, errors.Is(err, ErrConfiguration))
				return
			}
			assert.Equal(t, c.wantSQL, cmd.SQL)
			assert.Equal(t, c.wantParams, cmd.Params)
			assert.Equal(t, "UPDATE", cmd.Kind)
		})
	}
}

func TestBuilder_Delete(t *testing.T) {
	cases := []struct {
		name       string
		m          *model.Model
		wantSQL    string
		wantParams []string
		wantErr    error
	}{
		{
			name:       "user",
			m:          userModel(t),
			wantSQL:    "DELETE FROM User WHERE id = @id",
			wantParams: []string{"@id"},
		},
		{
			name:       "composite key",
			m:          compositeModel(t),
			wantSQL:    "DELETE FROM order_line WHERE order_id = @order_id AND line_no = @line_no",
			wantParams: []string{"@order_id", "@line_no"},
		},
		{
			name:    "no primary field",
			m:       noPrimaryModel(t),
			wantErr: errs.NewErrNoPrimaryField("audit_log", "DELETE"),
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cmd, err := NewBuilder(DialectSQLite).Delete(c.m)
			assert.Equal(t, c.wantErr, err)
			if err != nil {
				return
			}
			assert.Equal(t, c.wantSQL, cmd.SQL)
			assert.Equal(t, c.wantParams, cmd.Params)
		})
	}
}
