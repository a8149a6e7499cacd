package apigw

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws/arn"
)

// lambdaAPIVersion is the Lambda invoke API version used in integration URIs.
const lambdaAPIVersion = "2015-03-31"

// parseFunctionARN parses and checks a Lambda function ARN
// (arn:aws:lambda:us-east-1:123456789012:function:name[:qualifier]).
func parseFunctionARN(s string) (arn.ARN, error) {
	a, err := arn.Parse(s)
	if err != nil {
		return arn.ARN{}, fmt.Errorf("%q is not an ARN: %w", s, err)
	}
	if a.Service != "lambda" || !strings.HasPrefix(a.Resource, "function:") || a.Region == "" {
		return arn.ARN{}, fmt.Errorf("%q is not a Lambda function ARN", s)
	}
	return a, nil
}

// lambdaInvocationURI returns the API Gateway URI that invokes a Lambda function.
func lambdaInvocationURI(functionARN string) (string, error) {
	a, err := parseFunctionARN(functionARN)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("arn:%s:apigateway:%s:lambda:path/%s/functions/%s/invocations",
		a.Partition, a.Region, lambdaAPIVersion, functionARN), nil
}

// serviceURI returns the API Gateway URI for an AWS service integration.
// Exactly one of action and path is used; action wins when both are set.
func serviceURI(partition, region, service, action, path string) string {
	if partition == "" {
		partition = "aws"
	}
	if action != "" {
		return fmt.Sprintf("arn:%s:apigateway:%s:%s:action/%s", partition, region, service, action)
	}
	return fmt.Sprintf("arn:%s:apigateway:%s:%s:path/%s", partition, region, service, strings.TrimPrefix(path, "/"))
}
