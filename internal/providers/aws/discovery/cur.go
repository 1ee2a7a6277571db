package discovery

import (
	"context"
	"fmt"

	cursvc "github.com/aws/aws-sdk-go-v2/service/costandusagereportservice"
	curtypes "github.com/aws/aws-sdk-go-v2/service/costandusagereportservice/types"

	"github.com/pankaj-dahiya-devops/account-discovery/internal/models"
)

// collectReportDefinitions returns every Cost and Usage Report definition
// visible to the account. The API is only served from us-east-1; the caller
// supplies a client built for that region.
func collectReportDefinitions(ctx context.Context, client curAPIClient) ([]models.Record, error) {
	paginator := cursvc.NewDescribeReportDefinitionsPaginator(client, &cursvc.DescribeReportDefinitionsInput{})
	records := []models.Record{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe report definitions: %w", err)
		}
		for _, d := range page.ReportDefinitions {
			records = append(records, reportRecord(d))
		}
	}
	return records, nil
}

// reportRecord converts an SDK report definition. Empty enum values mean
// "not returned" and are omitted like nil pointers.
func reportRecord(d curtypes.ReportDefinition) models.Record {
	r := models.Record{}
	putString(r, "s3_bucket", d.S3Bucket)
	putString(r, "s3_prefix", d.S3Prefix)
	putString(r, "report_name", d.ReportName)
	putEnum(r, "time_unit", string(d.TimeUnit))
	putEnum(r, "format", string(d.Format))
	putEnum(r, "compression", string(d.Compression))
	putEnum(r, "report_versioning", string(d.ReportVersioning))
	putEnum(r, "s3_region", string(d.S3Region))
	putBool(r, "refresh_closed_reports", d.RefreshClosedReports)
	if len(d.AdditionalSchemaElements) > 0 {
		elems := make([]string, len(d.AdditionalSchemaElements))
		for i, e := range d.AdditionalSchemaElements {
			elems[i] = string(e)
		}
		r["additional_schema_elements"] = elems
	}
	return r
}
