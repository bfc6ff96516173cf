package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/priyank1574q/agent-vinod/agent"
	"github.com/priyank1574q/agent-vinod/datadict"
)

const dataDictionaryDesc = `Analyzes the project's datasets to provide a detailed data dictionary. Can return the full
dictionary for all tables, the schema for a single table, or the definition for a single column.
The full dictionary is cached after the first run to avoid repeated file reads.

Use this tool as one of the first steps to understand the data's structure, available columns,
data types, and relationships between tables.
Available tables: %s.

Examples:
- The full dictionary for all tables: get_data_dictionary()
- The schema for one table: get_data_dictionary(table_name="order_data")
- One column: get_data_dictionary(table_name="order_data", column_name="revenue")`

// DataDictionaryArgs are the arguments of get_data_dictionary.
type DataDictionaryArgs struct {
	TableName  string `json:"table_name,omitempty" jsonschema_description:"Return only this table."`
	ColumnName string `json:"column_name,omitempty" jsonschema_description:"Return only this column of table_name."`
}

func (k *Toolkit) dataDictionaryDescription() string {
	var names []string
	for _, ds := range k.dict.Datasets() {
		names = append(names, ds.Name)
	}
	return fmt.Sprintf(dataDictionaryDesc, strings.Join(names, ", "))
}

func (k *Toolkit) getDataDictionary(ctx context.Context, _ *agent.State, args DataDictionaryArgs) (*agent.Command, error) {
	fragment, err := k.dict.Get(ctx, datadict.Query{Table: args.TableName, Column: args.ColumnName})
	if err != nil {
		return nil, err
	}
	text, err := datadict.JSON(fragment)
	if err != nil {
		return nil, err
	}
	return reply(fmt.Sprintf("Data dictionary information:\n\n```json\n%s\n```", text)), nil
}
